package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ldframe/internal/store"
)

// CacheEntry is one row of `cache list`.
type CacheEntry struct {
	URL         string    `json:"url"`
	ContentHash string    `json:"content_hash"`
	ContextURL  string    `json:"context_url,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &ConfigFlags{}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the remote context cache",
		Long: `Inspect or clear the SQLite cache of remote JSON-LD contexts.

The cache file comes from --cache, LDFRAME_CACHE or cache.path in the
config file.`,
	}
	cmd.PersistentFlags().StringVar(&flags.Cache, "cache", "", "SQLite file caching remote contexts")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached contexts",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(rootOpts, flags, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <url>",
		Short: "Remove one cached context",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheRemove(rootOpts, flags, args[0], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Remove all cached contexts",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCachePurge(rootOpts, flags, cmd)
		},
	})

	return cmd
}

func openCache(opts *RootOptions, flags *ConfigFlags, cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd, opts, nil)
	if err != nil {
		return nil, err
	}
	path := cfg.Cache.Path
	if cmd.Flags().Changed("cache") {
		path = flags.Cache
	}
	if path == "" {
		return nil, &ExitError{
			Code:    ExitCommandError,
			ErrCode: ErrCodeConfig,
			Message: "no cache configured (use --cache, LDFRAME_CACHE or cache.path)",
		}
	}

	s, err := store.Open(path)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, ErrCode: ErrCodeConfig, Message: "open cache", Err: err}
	}
	return s, nil
}

func runCacheList(opts *RootOptions, flags *ConfigFlags, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openCache(opts, flags, cmd)
	if err != nil {
		return report(formatter, err)
	}
	defer s.Close()

	entries, err := s.List(cmd.Context())
	if err != nil {
		return report(formatter, err)
	}

	rows := make([]CacheEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, CacheEntry{
			URL:         e.URL,
			ContentHash: e.ContentHash,
			ContextURL:  e.ContextURL,
			FetchedAt:   e.FetchedAt.UTC(),
		})
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{"entries": rows})
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty.")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tFETCHED\tHASH")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.URL, r.FetchedAt.Format(time.RFC3339), shortHash(r.ContentHash))
	}
	return tw.Flush()
}

func runCacheRemove(opts *RootOptions, flags *ConfigFlags, url string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openCache(opts, flags, cmd)
	if err != nil {
		return report(formatter, err)
	}
	defer s.Close()

	removed, err := s.Delete(cmd.Context(), url)
	if err != nil {
		return report(formatter, err)
	}
	if !removed {
		return report(formatter, &ExitError{
			Code:    ExitFailure,
			ErrCode: ErrCodeGeneric,
			Message: fmt.Sprintf("not cached: %s", url),
		})
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{"removed": url})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", url)
	return nil
}

func runCachePurge(opts *RootOptions, flags *ConfigFlags, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openCache(opts, flags, cmd)
	if err != nil {
		return report(formatter, err)
	}
	defer s.Close()

	n, err := s.Purge(cmd.Context())
	if err != nil {
		return report(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{"purged": n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached context(s)\n", n)
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
