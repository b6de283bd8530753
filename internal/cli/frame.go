package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ldframe/internal/driver"
)

// FrameOptions holds flags for the frame command.
type FrameOptions struct {
	*RootOptions
	ConfigFlags
	Digest bool
}

// NewFrameCommand creates the frame command.
func NewFrameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FrameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "frame <name>",
		Short: "Frame the data document with a named frame",
		Long: `Frame the data document with <schema-dir>/<name><frame-ext> and print the
framed result as indented JSON on standard output.

Nothing is written to standard output unless framing succeeds.

Exit codes:
  0 - Framed result written
  1 - Framing or output failure
  2 - Invalid arguments, missing or malformed input, configuration error

Examples:
  ldframe frame person
  ldframe frame person --schema-dir ./schema --data ./data.jsonld
  ldframe frame person --offline --cache ~/.cache/ldframe.db
  ldframe frame person --digest`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrame(opts, args[0], cmd)
		},
	}

	opts.register(cmd)
	return cmd
}

// register adds the frame flags to cmd. They are shared by the root command
// and the frame subcommand.
func (o *FrameOptions) register(cmd *cobra.Command) {
	o.ConfigFlags.register(cmd, true)
	cmd.Flags().BoolVar(&o.Digest, "digest", false, "print the canonical digest of the result to stderr")
}

func runFrame(opts *FrameOptions, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(cmd, opts.RootOptions, &opts.ConfigFlags)
	if err != nil {
		return report(formatter, err)
	}

	log := opts.logger(cmd)
	d, err := driver.Open(cmd.Context(), cfg, driver.Options{Log: log})
	if err != nil {
		return report(formatter, err)
	}
	defer d.Close()

	res, err := d.Run(cmd.Context(), name, cmd.OutOrStdout(), opts.Digest)
	if err != nil {
		return report(formatter, err)
	}

	if opts.Digest {
		fmt.Fprintf(cmd.ErrOrStderr(), "digest: %s\n", res.Digest)
	}
	formatter.VerboseLog("framed %s: %d top-level node(s), run %s", name, res.Nodes, res.RunID)
	return nil
}
