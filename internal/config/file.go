package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape shared by YAML and TOML files. Pointer
// fields distinguish "absent" from the zero value.
type fileConfig struct {
	SchemaDir   *string           `yaml:"schema_dir" toml:"schema_dir"`
	FrameExt    *string           `yaml:"frame_ext" toml:"frame_ext"`
	Data        *string           `yaml:"data" toml:"data"`
	Contexts    map[string]string `yaml:"contexts" toml:"contexts"`
	Offline     *bool             `yaml:"offline" toml:"offline"`
	HTTPTimeout *string           `yaml:"http_timeout" toml:"http_timeout"`

	Cache   *fileCache   `yaml:"cache" toml:"cache"`
	Framing *fileFraming `yaml:"framing" toml:"framing"`
	Output  *fileOutput  `yaml:"output" toml:"output"`
}

type fileCache struct {
	Path *string `yaml:"path" toml:"path"`
	TTL  *string `yaml:"ttl" toml:"ttl"`
}

type fileFraming struct {
	Embed          *string `yaml:"embed" toml:"embed"`
	Explicit       *bool   `yaml:"explicit" toml:"explicit"`
	RequireAll     *bool   `yaml:"require_all" toml:"require_all"`
	OmitDefault    *bool   `yaml:"omit_default" toml:"omit_default"`
	OmitGraph      *bool   `yaml:"omit_graph" toml:"omit_graph"`
	ProcessingMode *string `yaml:"processing_mode" toml:"processing_mode"`
	Base           *string `yaml:"base" toml:"base"`
}

type fileOutput struct {
	Indent *int  `yaml:"indent" toml:"indent"`
	ASCII  *bool `yaml:"ascii" toml:"ascii"`
}

// MergeFile overlays the settings present in the file at path onto c.
func (c *Config) MergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &Error{Field: "file", Message: path, Err: err}
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(raw, &fc)
	case ".toml":
		err = decodeTOML(raw, &fc)
	default:
		return &Error{Field: "file", Message: fmt.Sprintf("%s: unsupported format %q (want .yaml, .yml or .toml)", path, ext)}
	}
	if err != nil {
		return &Error{Field: "file", Message: path, Err: err}
	}

	return c.apply(fc, filepath.Dir(path))
}

func decodeYAML(raw []byte, fc *fileConfig) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(fc)
}

func decodeTOML(raw []byte, fc *fileConfig) error {
	meta, err := toml.Decode(string(raw), fc)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) apply(fc fileConfig, baseDir string) error {
	rel := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	if fc.SchemaDir != nil {
		c.SchemaDir = rel(*fc.SchemaDir)
	}
	if fc.FrameExt != nil {
		c.FrameExt = strings.TrimSpace(*fc.FrameExt)
	}
	if fc.Data != nil {
		c.Data = rel(*fc.Data)
	}
	if len(fc.Contexts) > 0 {
		if c.Contexts == nil {
			c.Contexts = make(map[string]string, len(fc.Contexts))
		}
		for u, p := range fc.Contexts {
			c.Contexts[strings.TrimSpace(u)] = rel(p)
		}
	}
	if fc.Offline != nil {
		c.Offline = *fc.Offline
	}
	if fc.HTTPTimeout != nil {
		d, err := parseDuration("http_timeout", *fc.HTTPTimeout)
		if err != nil {
			return err
		}
		c.HTTPTimeout = d
	}

	if fc.Cache != nil {
		if fc.Cache.Path != nil {
			c.Cache.Path = rel(*fc.Cache.Path)
		}
		if fc.Cache.TTL != nil {
			d, err := parseDuration("cache.ttl", *fc.Cache.TTL)
			if err != nil {
				return err
			}
			c.Cache.TTL = d
		}
	}

	if f := fc.Framing; f != nil {
		setString(&c.Framing.Embed, f.Embed)
		setBool(&c.Framing.Explicit, f.Explicit)
		setBool(&c.Framing.RequireAll, f.RequireAll)
		setBool(&c.Framing.OmitDefault, f.OmitDefault)
		setBool(&c.Framing.OmitGraph, f.OmitGraph)
		setString(&c.Framing.ProcessingMode, f.ProcessingMode)
		setString(&c.Framing.Base, f.Base)
	}

	if o := fc.Output; o != nil {
		if o.Indent != nil {
			c.Output.Indent = *o.Indent
		}
		setBool(&c.Output.ASCII, o.ASCII)
	}
	return nil
}

func parseDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, &Error{Field: field, Message: fmt.Sprintf("invalid duration %q", s), Err: err}
	}
	return d, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
