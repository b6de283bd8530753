// Package config holds the settings for a framing run and loads them from
// defaults, an optional YAML or TOML file, and LDFRAME_* environment
// variables, in that order. Command-line flags are applied last by the CLI.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/roach88/ldframe/internal/framing"
)

// Defaults for a run with no configuration at all. Paths are relative to the
// working directory.
const (
	DefaultSchemaDir   = "../web/schema"
	DefaultFrameExt    = ".jsonld"
	DefaultData        = "../data/rdf/pm20.interim.jsonld"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultIndent      = 2
)

// Config is the resolved configuration.
type Config struct {
	SchemaDir string
	FrameExt  string
	Data      string

	// Contexts maps a context URL, or a URL prefix ending in "/", to a local
	// file or directory.
	Contexts map[string]string

	Offline     bool
	HTTPTimeout time.Duration

	Cache   CacheConfig
	Framing FramingConfig
	Output  OutputConfig
}

// CacheConfig controls the SQLite context cache. An empty Path disables it.
type CacheConfig struct {
	Path string
	TTL  time.Duration
}

// FramingConfig mirrors framing.Options.
type FramingConfig struct {
	Embed          string
	Explicit       bool
	RequireAll     bool
	OmitDefault    bool
	OmitGraph      bool
	ProcessingMode string
	Base           string
}

// OutputConfig controls serialization of the framed result.
type OutputConfig struct {
	Indent int
	ASCII  bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SchemaDir:   DefaultSchemaDir,
		FrameExt:    DefaultFrameExt,
		Data:        DefaultData,
		Contexts:    map[string]string{},
		HTTPTimeout: DefaultHTTPTimeout,
		Framing: FramingConfig{
			ProcessingMode: framing.ModeJSONLD11,
			Embed:          framing.EmbedOnce,
		},
		Output: OutputConfig{
			Indent: DefaultIndent,
		},
	}
}

// FramingOptions converts the framing section for the framing package.
func (c Config) FramingOptions() framing.Options {
	return framing.Options{
		Base:           c.Framing.Base,
		ProcessingMode: c.Framing.ProcessingMode,
		Embed:          c.Framing.Embed,
		Explicit:       c.Framing.Explicit,
		RequireAll:     c.Framing.RequireAll,
		OmitDefault:    c.Framing.OmitDefault,
		OmitGraph:      c.Framing.OmitGraph,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SchemaDir) == "" {
		return fieldError("schema_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Data) == "" {
		return fieldError("data", "must not be empty")
	}
	if !strings.HasPrefix(c.FrameExt, ".") || len(c.FrameExt) < 2 {
		return fieldError("frame_ext", fmt.Sprintf("%q must start with a dot", c.FrameExt))
	}
	if strings.ContainsAny(c.FrameExt, `/\`) {
		return fieldError("frame_ext", fmt.Sprintf("%q must not contain path separators", c.FrameExt))
	}
	if c.HTTPTimeout < 0 {
		return fieldError("http_timeout", "must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fieldError("cache.ttl", "must not be negative")
	}
	if c.Framing.Embed != "" && !slices.Contains(framing.EmbedValues, c.Framing.Embed) {
		return fieldError("framing.embed", fmt.Sprintf("%q is not one of %s", c.Framing.Embed, strings.Join(framing.EmbedValues, ", ")))
	}
	switch c.Framing.ProcessingMode {
	case "", framing.ModeJSONLD10, framing.ModeJSONLD11:
	default:
		return fieldError("framing.processing_mode", fmt.Sprintf("%q is not %s or %s", c.Framing.ProcessingMode, framing.ModeJSONLD10, framing.ModeJSONLD11))
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return fieldError("output.indent", fmt.Sprintf("%d is outside 0..8", c.Output.Indent))
	}
	for u, p := range c.Contexts {
		if strings.TrimSpace(u) == "" || strings.TrimSpace(p) == "" {
			return fieldError("contexts", "keys and paths must not be empty")
		}
	}
	return nil
}

// Error is a configuration problem tied to a key or source.
type Error struct {
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func fieldError(field, msg string) error {
	return &Error{Field: field, Message: msg}
}
