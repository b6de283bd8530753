package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ldframe/internal/document"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &ConfigFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the frames in the schema directory",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, flags, cmd)
		},
	}

	flags.register(cmd, false)
	return cmd
}

func runList(opts *RootOptions, flags *ConfigFlags, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(cmd, opts, flags)
	if err != nil {
		return report(formatter, err)
	}

	names, err := document.ListFrames(cfg.SchemaDir, cfg.FrameExt)
	if err != nil {
		return report(formatter, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeConfig, Err: err})
	}

	if opts.Format == "json" {
		if names == nil {
			names = []string{}
		}
		return formatter.Success(map[string]any{"schema_dir": cfg.SchemaDir, "frames": names})
	}

	w := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}
