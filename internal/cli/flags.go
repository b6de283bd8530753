package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ldframe/internal/config"
)

// ConfigFlags are the per-command overrides of configuration keys. Only
// flags set on the command line override the file and environment.
type ConfigFlags struct {
	SchemaDir string
	Data      string
	FrameExt  string
	Cache     string
	Offline   bool
	ASCII     bool
	Indent    int
}

func (f *ConfigFlags) register(cmd *cobra.Command, output bool) {
	cmd.Flags().StringVar(&f.SchemaDir, "schema-dir", "", "directory holding frame documents (default "+config.DefaultSchemaDir+")")
	cmd.Flags().StringVar(&f.Data, "data", "", "data document (default "+config.DefaultData+")")
	cmd.Flags().StringVar(&f.FrameExt, "frame-ext", "", "frame file extension (default "+config.DefaultFrameExt+")")
	cmd.Flags().StringVar(&f.Cache, "cache", "", "SQLite file caching remote contexts")
	cmd.Flags().BoolVar(&f.Offline, "offline", false, "never fetch remote contexts")
	if output {
		cmd.Flags().BoolVar(&f.ASCII, "ascii", false, "escape non-ASCII characters in the output")
		cmd.Flags().IntVar(&f.Indent, "indent", config.DefaultIndent, "spaces of indentation (0 for compact output)")
	}
}

func (f *ConfigFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("schema-dir") {
		cfg.SchemaDir = f.SchemaDir
	}
	if changed("data") {
		cfg.Data = f.Data
	}
	if changed("frame-ext") {
		cfg.FrameExt = f.FrameExt
	}
	if changed("cache") {
		cfg.Cache.Path = f.Cache
	}
	if changed("offline") {
		cfg.Offline = f.Offline
	}
	if changed("ascii") {
		cfg.Output.ASCII = f.ASCII
	}
	if changed("indent") {
		cfg.Output.Indent = f.Indent
	}
}

// loadConfig resolves the configuration for cmd: defaults, config file,
// environment, then flags.
func loadConfig(cmd *cobra.Command, root *RootOptions, flags *ConfigFlags) (config.Config, error) {
	cfg, err := config.Resolve(root.ConfigPath, root.lookup())
	if err != nil {
		return config.Config{}, err
	}
	if flags != nil {
		flags.apply(cmd, &cfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
