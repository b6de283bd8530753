package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ldframe/internal/driver"
)

// FlattenOptions holds flags for the flatten command.
type FlattenOptions struct {
	*RootOptions
	ConfigFlags
	Context string
	Digest  bool
}

// NewFlattenCommand creates the flatten command.
func NewFlattenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FlattenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Flatten the data document",
		Long: `Flatten the data document into a single list of node objects and print it
on standard output. With --context the result is compacted against the
@context of the named frame.

Examples:
  ldframe flatten
  ldframe flatten --context person`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlatten(opts, cmd)
		},
	}

	opts.ConfigFlags.register(cmd, true)
	cmd.Flags().StringVar(&opts.Context, "context", "", "frame whose @context is used to compact the result")
	cmd.Flags().BoolVar(&opts.Digest, "digest", false, "print the canonical digest of the result to stderr")

	return cmd
}

func runFlatten(opts *FlattenOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(cmd, opts.RootOptions, &opts.ConfigFlags)
	if err != nil {
		return report(formatter, err)
	}

	d, err := driver.Open(cmd.Context(), cfg, driver.Options{Log: opts.logger(cmd)})
	if err != nil {
		return report(formatter, err)
	}
	defer d.Close()

	res, err := d.Flatten(cmd.Context(), opts.Context, opts.Digest)
	if err != nil {
		return report(formatter, err)
	}

	if err := driver.Write(cmd.OutOrStdout(), res.Output); err != nil {
		return report(formatter, err)
	}
	if opts.Digest {
		fmt.Fprintf(cmd.ErrOrStderr(), "digest: %s\n", res.Digest)
	}
	return nil
}
