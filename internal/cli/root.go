package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/ldframe/internal/config"
	"github.com/roach88/ldframe/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Lookup reads environment variables; nil means os.LookupEnv.
	Lookup config.LookupFunc
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ldframe CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	frameOpts := &FrameOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "ldframe <name>",
		Short: "Frame JSON-LD data with named frame documents",
		Long: `ldframe loads a JSON-LD frame document by name from the schema directory,
frames the configured JSON-LD data document with it, and prints the framed
result as indented JSON on standard output. "ldframe <name>" is the same as
"ldframe frame <name>"; a frame that shares a subcommand's name must be
framed with the frame subcommand.

Configuration is read from built-in defaults, an optional YAML or TOML file
(--config or LDFRAME_CONFIG), LDFRAME_* environment variables and flags, in
increasing order of precedence.`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrame(frameOpts, args[0], cmd)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return &ExitError{
					Code:    ExitCommandError,
					ErrCode: ErrCodeUsage,
					Message: fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats),
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml or .toml)")
	frameOpts.register(cmd)

	cmd.AddCommand(NewFrameCommand(opts))
	cmd.AddCommand(NewFlattenCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewCacheCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit status.
// Errors not already reported by a command are written to stderr here.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, &RootOptions{}, args, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	if args == nil {
		// cobra reads os.Args when given nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Errors cobra raises itself are usage errors.
		exitErr = &ExitError{Code: ExitCommandError, ErrCode: ErrCodeUsage, Err: err}
	}
	if !exitErr.Reported {
		format := opts.Format
		if !isValidFormat(format) {
			format = "text"
		}
		f := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
		_ = report(f, exitErr)
	}
	return exitErr.Code
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) logger(cmd *cobra.Command) zerolog.Logger {
	return logging.New(cmd.ErrOrStderr(), logging.Options{
		Verbose: o.Verbose,
		JSON:    o.Format == "json",
		NoColor: true,
	})
}

func (o *RootOptions) lookup() config.LookupFunc {
	if o.Lookup != nil {
		return o.Lookup
	}
	return os.LookupEnv
}

// exactArgs is cobra.ExactArgs with a usage exit status.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &ExitError{Code: ExitCommandError, ErrCode: ErrCodeUsage, Err: err}
		}
		return nil
	}
}

// noArgs is cobra.NoArgs with a usage exit status.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &ExitError{Code: ExitCommandError, ErrCode: ErrCodeUsage, Err: err}
	}
	return nil
}
