// Package cli implements the stormlin command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/syssam/stormlin"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string // path to a YAML config file
	Driver  string
	DSN     string
	Debug   bool
	Format  string // "json" | "text"
	Verbose bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the stormlin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "stormlin",
		Short:         "stormlin - a small SQL object mapper",
		Long:          "Render fluent selectors and browse the perry catalog through the stormlin mapper.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "sqlite", "database/sql driver (sqlite|mysql|postgres)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "data source name (default $"+stormlin.EnvDSN+")")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "log every executed statement")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCyclesCommand(opts))
	cmd.AddCommand(NewBookCommand(opts))
	cmd.AddCommand(NewBooksCommand(opts))
	cmd.AddCommand(NewAddBookCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// config resolves the connection settings from the flags, the config file
// and the environment, in increasing order of precedence for the DSN.
func (o *RootOptions) config() (*stormlin.Config, error) {
	cfg := &stormlin.Config{Driver: o.Driver}
	if o.Config != "" {
		loaded, err := stormlin.LoadConfig(o.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if dsn := os.Getenv(stormlin.EnvDSN); dsn != "" {
		cfg.DSN = dsn
	}
	if o.DSN != "" {
		cfg.DSN = o.DSN
	}
	if o.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// open connects to the configured database.
func (o *RootOptions) open(cmd *cobra.Command) (*stormlin.Orm, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	level := slog.LevelWarn
	if o.Verbose || cfg.Debug {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	orm, err := stormlin.OpenConfig(cfg, stormlin.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	return orm, nil
}
