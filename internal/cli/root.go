package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"Astrolabe/pkg/config"
	"Astrolabe/pkg/server"
)

// AppFactory builds the application for one command run.
type AppFactory func(cfg *config.Config) (*server.App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	newApp AppFactory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the astrolabe CLI.
func NewRootCommand(newApp AppFactory) *cobra.Command {
	opts := &RootOptions{newApp: newApp}

	cmd := &cobra.Command{
		Use:   "astrolabe",
		Short: "Astrolabe - natal and design chart calculator",
		Long: `Compute astrological charts from a birth instant and location.

Resolves local or UTC birth times, classifies bodies into houses and signs,
encodes longitudes on the 64-gate wheel and back-solves the design instant.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (defaults plus ASTRO_* env when empty)")

	cmd.AddCommand(NewChartCommand(opts))
	cmd.AddCommand(NewDesignCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewHouseCommand(opts))
	cmd.AddCommand(NewWheelCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// loadApp reads the configuration and builds the application. --verbose raises the log level to debug.
func (o *RootOptions) loadApp() (*server.App, error) {
	cfg, err := config.LoadWithEnv(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	app, err := o.newApp(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "initialize app", err)
	}
	return app, nil
}

// Execute runs cmd and returns the process exit code. Errors the commands have not
// reported themselves, such as unknown flags, are printed to stderr.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Reported {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitCommandError
}
