package cli

import (
	"errors"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/syssam/stormlin/examples/perry"
	"github.com/syssam/stormlin/schema"
)

// perryTypes are the record types checked by the validate command.
var perryTypes = []reflect.Type{
	reflect.TypeFor[perry.Cycle](),
	reflect.TypeFor[perry.Book](),
}

// validation is the report of one record type.
type validation struct {
	Type     string                    `json:"type"`
	Errors   []*schema.ValidationError `json:"errors,omitempty"`
	Warnings []*schema.ValidationError `json:"warnings,omitempty"`

	result *schema.ValidationResult
}

func (v validation) String() string {
	return v.Type + ": " + v.result.String()
}

// validateTypes checks every type and reports whether any has errors.
func validateTypes(types []reflect.Type) ([]validation, bool) {
	var (
		out    = make([]validation, 0, len(types))
		failed bool
	)
	for _, t := range types {
		r := schema.Validate(t)
		failed = failed || r.HasErrors()
		out = append(out, validation{Type: t.String(), Errors: r.Errors, Warnings: r.Warnings, result: r})
	}
	return out, failed
}

// NewValidateCommand creates the validate command. It checks the column
// mapping of the perry record types without touching a database.
func NewValidateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the column mapping of the perry record types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, failed := validateTypes(perryTypes)
			if err := printAll(printer{format: root.Format, w: cmd.OutOrStdout()}, reports); err != nil {
				return err
			}
			if failed {
				return WrapExitError(ExitFailure, "validate", errors.New("invalid record types"))
			}
			return nil
		},
	}
}
