package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/stormlin"
	"github.com/syssam/stormlin/examples/perry"
)

// withCatalog opens the database, declares the perry catalog and runs fn.
func withCatalog(cmd *cobra.Command, root *RootOptions, fn func(*stormlin.Orm, *perry.Catalog) error) (err error) {
	orm, err := root.open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := orm.Close(); cerr != nil && err == nil {
			err = WrapExitError(ExitFailure, "close database", cerr)
		}
	}()
	catalog, err := perry.NewCatalog(orm)
	if err != nil {
		return WrapExitError(ExitCommandError, "declare catalog", err)
	}
	return fn(orm, catalog)
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the perry tables (SQLite)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, root, func(orm *stormlin.Orm, _ *perry.Catalog) error {
				if err := perry.Migrate(cmd.Context(), orm.Driver()); err != nil {
					return WrapExitError(ExitFailure, "migrate", err)
				}
				return printer{format: root.Format, w: cmd.OutOrStdout()}.print("ok")
			})
		},
	}
}

// NewCyclesCommand creates the cycles command.
func NewCyclesCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "List every cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, root, func(_ *stormlin.Orm, c *perry.Catalog) error {
				cycles, err := c.Cycles(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "cycles", err)
				}
				if root.Verbose {
					fmt.Fprintf(cmd.ErrOrStderr(), "Found %d cycles\n", len(cycles))
				}
				return printAll(printer{format: root.Format, w: cmd.OutOrStdout()}, cycles)
			})
		},
	}
}

// NewBookCommand creates the book command.
func NewBookCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "book <number>",
		Short: "Show one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid issue number", err)
			}
			return withCatalog(cmd, root, func(_ *stormlin.Orm, c *perry.Catalog) error {
				book, err := c.Book(cmd.Context(), number)
				if err != nil {
					return WrapExitError(ExitFailure, "book", err)
				}
				return printer{format: root.Format, w: cmd.OutOrStdout()}.print(book)
			})
		},
	}
}

// NewBooksCommand creates the books command.
func NewBooksCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "books <start> <end>",
		Short: "List the issues in a number range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.Atoi(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid start", err)
			}
			end, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid end", err)
			}
			return withCatalog(cmd, root, func(_ *stormlin.Orm, c *perry.Catalog) error {
				books, err := c.Books(cmd.Context(), start, end)
				if err != nil {
					return WrapExitError(ExitFailure, "books", err)
				}
				return printAll(printer{format: root.Format, w: cmd.OutOrStdout()}, books)
			})
		},
	}
}

// AddBookOptions holds the flags of the add-book command.
type AddBookOptions struct {
	Number     int
	Title      string
	Author     string
	Published  string
	GermanFile string
}

// Book returns the record described by the flags. Unset flags stay nil
// so they are left out of the INSERT.
func (o *AddBookOptions) Book(cmd *cobra.Command) (*perry.Book, error) {
	b := perry.NewBook()
	if cmd.Flags().Changed("number") {
		b.Number = &o.Number
	}
	if cmd.Flags().Changed("title") {
		b.Title = &o.Title
	}
	if cmd.Flags().Changed("author") {
		b.Author = &o.Author
	}
	if cmd.Flags().Changed("published") {
		t, err := time.Parse(time.DateOnly, o.Published)
		if err != nil {
			return nil, fmt.Errorf("invalid published date: %w", err)
		}
		b.Published = &t
	}
	if cmd.Flags().Changed("german-file") {
		b.GermanFile = &o.GermanFile
	}
	return b, nil
}

// NewAddBookCommand creates the add-book command.
func NewAddBookCommand(root *RootOptions) *cobra.Command {
	opts := &AddBookOptions{}

	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Insert an issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := opts.Book(cmd)
			if err != nil {
				return WrapExitError(ExitCommandError, "add-book", err)
			}
			return withCatalog(cmd, root, func(orm *stormlin.Orm, _ *perry.Catalog) error {
				res, err := orm.Save(cmd.Context(), book)
				if err != nil {
					return WrapExitError(ExitCommandError, "add-book", err)
				}
				if !res.Success {
					return WrapExitError(ExitFailure, "add-book", res.Failure)
				}
				return printer{format: root.Format, w: cmd.OutOrStdout()}.print(book)
			})
		},
	}

	cmd.Flags().IntVar(&opts.Number, "number", 0, "issue number (generated when omitted)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title")
	cmd.Flags().StringVar(&opts.Author, "author", "", "author")
	cmd.Flags().StringVar(&opts.Published, "published", "", "publication date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.GermanFile, "german-file", "", "german file name")

	return cmd
}
