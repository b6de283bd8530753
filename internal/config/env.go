package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig      = "LDFRAME_CONFIG"
	EnvSchemaDir   = "LDFRAME_SCHEMA_DIR"
	EnvFrameExt    = "LDFRAME_FRAME_EXT"
	EnvData        = "LDFRAME_DATA"
	EnvCache       = "LDFRAME_CACHE"
	EnvOffline     = "LDFRAME_OFFLINE"
	EnvHTTPTimeout = "LDFRAME_HTTP_TIMEOUT"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays LDFRAME_* variables onto c. Empty values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvSchemaDir); ok {
		c.SchemaDir = v
	}
	if v, ok := get(EnvFrameExt); ok {
		c.FrameExt = v
	}
	if v, ok := get(EnvData); ok {
		c.Data = v
	}
	if v, ok := get(EnvCache); ok {
		c.Cache.Path = v
	}
	if v, ok := get(EnvOffline); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &Error{Field: EnvOffline, Message: fmt.Sprintf("invalid boolean %q", v), Err: err}
		}
		c.Offline = b
	}
	if v, ok := get(EnvHTTPTimeout); ok {
		d, err := parseDuration(EnvHTTPTimeout, v)
		if err != nil {
			return err
		}
		c.HTTPTimeout = d
	}
	return nil
}

// Resolve builds a configuration from defaults, the config file (explicit
// path, else $LDFRAME_CONFIG) and the environment. The caller applies flags
// and then calls Validate.
func Resolve(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path == "" {
		if v, ok := lookup(EnvConfig); ok {
			path = strings.TrimSpace(v)
		}
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
