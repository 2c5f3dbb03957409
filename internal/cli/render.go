package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/stormlin/dialect/sql"
)

// RenderOptions holds the flags of the render command.
type RenderOptions struct {
	Fields []string
	From   string
	Preds  []PredicateArg // --where and --where-raw in command line order
	Comma  bool
}

// PredicateArg is one predicate flag value.
type PredicateArg struct {
	Raw  bool   // set by --where-raw
	Expr string // field=value, or the raw expression
}

// predicateFlag appends to a shared predicate list so that --where and
// --where-raw keep their relative order.
type predicateFlag struct {
	raw   bool
	preds *[]PredicateArg
}

func (f *predicateFlag) String() string { return "[]" }

func (f *predicateFlag) Set(v string) error {
	*f.preds = append(*f.preds, PredicateArg{Raw: f.raw, Expr: v})
	return nil
}

func (f *predicateFlag) Type() string { return "stringArray" }

// NewRenderCommand creates the render command. It prints the statement a
// selector built from the flags produces, without touching a database.
func NewRenderCommand(root *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the SQL of a selector",
		Example: `  stormlin render --select a,b --from cycles --where number=ced
  stormlin render --select '*' --from hefte --where number=2000 --where author=Scheer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := opts.Selector()
			if err != nil {
				return WrapExitError(ExitCommandError, "render", err)
			}
			return printer{format: root.Format, w: cmd.OutOrStdout()}.print(sel.String())
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Fields, "select", "s", []string{"*"}, "fields to select")
	cmd.Flags().StringVarP(&opts.From, "from", "f", "", "table to select from")
	cmd.Flags().VarP(&predicateFlag{preds: &opts.Preds}, "where", "w", "equality predicate field=value (repeatable)")
	cmd.Flags().Var(&predicateFlag{raw: true, preds: &opts.Preds}, "where-raw", "raw predicate expression (repeatable)")
	cmd.Flags().BoolVar(&opts.Comma, "comma", false, "join predicates with \", \" instead of \" AND \"")

	return cmd
}

// Selector builds the selector described by the options.
func (o *RenderOptions) Selector() (sql.Selector, error) {
	sel := sql.Select(o.Fields...)
	if o.From != "" {
		sel = sel.From(o.From)
	}
	for _, p := range o.Preds {
		if p.Raw {
			sel = sel.WhereAll(p.Expr)
			continue
		}
		field, value, ok := strings.Cut(p.Expr, "=")
		if !ok || field == "" {
			return sql.Selector{}, fmt.Errorf("invalid predicate %q: want field=value", p.Expr)
		}
		sel = sel.Where(field).Eq(parseValue(value))
	}
	if o.Comma {
		sel = sel.Comma()
	}
	return sel, nil
}

// parseValue reads integers and floats as numbers, "null" as NULL and
// everything else as text.
func parseValue(s string) any {
	if strings.EqualFold(s, "null") {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
