package driver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/ldframe/internal/canonical"
	"github.com/roach88/ldframe/internal/config"
	"github.com/roach88/ldframe/internal/contexts"
	"github.com/roach88/ldframe/internal/document"
	"github.com/roach88/ldframe/internal/framing"
	"github.com/roach88/ldframe/internal/logging"
	"github.com/roach88/ldframe/internal/schema"
	"github.com/roach88/ldframe/internal/store"
)

// Options supplies the collaborators of a Driver. Nil fields are built from
// the configuration by Open.
type Options struct {
	Framer *framing.Framer
	Loader *contexts.Loader
	Schema *schema.Validator
	Log    zerolog.Logger
	IDs    IDGenerator
}

// Driver runs framing jobs for one configuration.
type Driver struct {
	cfg    config.Config
	framer *framing.Framer
	loader *contexts.Loader
	schema *schema.Validator
	cache  *store.Store
	log    zerolog.Logger
	ids    IDGenerator
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string
	FramePath string
	DataPath  string

	// Value is the decoded result; Output is its serialized form.
	Value  any
	Output []byte

	// Digest is the canonical digest of Value, set when requested.
	Digest string
	Nodes  int
}

// Open builds a Driver from cfg. When cfg.Cache.Path is set the context
// cache is opened and must be released with Close.
func Open(ctx context.Context, cfg config.Config, opts Options) (*Driver, error) {
	d := &Driver{
		cfg:    cfg,
		framer: opts.Framer,
		loader: opts.Loader,
		schema: opts.Schema,
		log:    opts.Log,
		ids:    opts.IDs,
	}
	if d.ids == nil {
		d.ids = UUIDv7Generator{}
	}

	if d.schema == nil {
		v, err := schema.New()
		if err != nil {
			return nil, err
		}
		d.schema = v
	}

	if d.framer == nil {
		if d.loader == nil {
			loader, err := d.newLoader(ctx)
			if err != nil {
				return nil, err
			}
			d.loader = loader
		}
		d.framer = framing.New(cfg.FramingOptions(), d.loader)
	}
	return d, nil
}

func (d *Driver) newLoader(ctx context.Context) (*contexts.Loader, error) {
	opts := contexts.Options{
		Overrides:   d.cfg.Contexts,
		TTL:         d.cfg.Cache.TTL,
		Offline:     d.cfg.Offline,
		HTTPTimeout: d.cfg.HTTPTimeout,
		Context:     ctx,
		Logger:      d.log,
	}
	if d.cfg.Cache.Path != "" {
		s, err := store.Open(d.cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("open context cache: %w", err)
		}
		d.cache = s
		opts.Cache = s
	}
	return contexts.New(opts), nil
}

// Close releases the context cache, if one was opened.
func (d *Driver) Close() error {
	if d.cache == nil {
		return nil
	}
	err := d.cache.Close()
	d.cache = nil
	return err
}

// Frame resolves the frame called name, frames the data document with it
// and returns the encoded result without writing it anywhere.
func (d *Driver) Frame(ctx context.Context, name string, withDigest bool) (*Result, error) {
	res := &Result{RunID: d.ids.Generate(), DataPath: d.cfg.Data}
	log := logging.WithRun(d.log, res.RunID).With().Str("frame", name).Logger()
	start := time.Now()

	path, err := document.ResolveFramePath(d.cfg.SchemaDir, name, d.cfg.FrameExt)
	if err != nil {
		return nil, err
	}
	res.FramePath = path
	log.Debug().Str("path", path).Msg("resolved frame")

	frame, err := document.LoadFrame(name, path)
	if err != nil {
		return nil, err
	}
	for _, v := range d.schema.Validate(frame) {
		log.Warn().Str("path", v.Path).Msg("frame shape: " + v.Message)
	}

	data, err := document.LoadData(d.cfg.Data)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("data", d.cfg.Data).Msg("loaded documents")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	framed, err := d.framer.Frame(data, frame)
	if err != nil {
		log.Debug().Err(err).Msg("framing failed")
		return nil, err
	}
	d.logResolved(log)

	res.Value = framed
	res.Nodes = len(framing.TopLevelNodes(framed))
	if err := d.finish(res, withDigest); err != nil {
		return nil, err
	}

	log.Debug().
		Int("nodes", res.Nodes).
		Int("bytes", len(res.Output)).
		Dur("elapsed", time.Since(start)).
		Msg("framed")
	return res, nil
}

// Run frames the data with the named frame and writes the result to w.
// Nothing is written unless framing and encoding succeed.
func (d *Driver) Run(ctx context.Context, name string, w io.Writer, withDigest bool) (*Result, error) {
	res, err := d.Frame(ctx, name, withDigest)
	if err != nil {
		return nil, err
	}
	if err := Write(w, res.Output); err != nil {
		return nil, err
	}
	return res, nil
}

// Flatten flattens the data document. When contextFrame is non-empty the
// result is compacted against that frame's @context.
func (d *Driver) Flatten(ctx context.Context, contextFrame string, withDigest bool) (*Result, error) {
	res := &Result{RunID: d.ids.Generate(), DataPath: d.cfg.Data}
	log := logging.WithRun(d.log, res.RunID)

	var compactWith any
	if contextFrame != "" {
		path, err := document.ResolveFramePath(d.cfg.SchemaDir, contextFrame, d.cfg.FrameExt)
		if err != nil {
			return nil, err
		}
		frame, err := document.LoadFrame(contextFrame, path)
		if err != nil {
			return nil, err
		}
		res.FramePath = path
		if m, ok := frame.(map[string]any); ok {
			compactWith = m["@context"]
		}
		if compactWith == nil {
			log.Warn().Str("frame", contextFrame).Msg("frame has no @context; flattening uncompacted")
		}
	}

	data, err := document.LoadData(d.cfg.Data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flat, err := d.framer.Flatten(data, compactWith)
	if err != nil {
		return nil, err
	}
	d.logResolved(log)

	res.Value = flat
	switch v := flat.(type) {
	case []any:
		res.Nodes = len(v)
	case map[string]any:
		res.Nodes = len(framing.TopLevelNodes(v))
	}
	if err := d.finish(res, withDigest); err != nil {
		return nil, err
	}
	return res, nil
}

func (d *Driver) finish(res *Result, withDigest bool) error {
	out, err := Encode(res.Value, d.cfg.Output.Indent, d.cfg.Output.ASCII)
	if err != nil {
		return err
	}
	res.Output = out

	if withDigest {
		digest, err := canonical.Digest(canonical.DomainFramed, res.Value)
		if err != nil {
			return fmt.Errorf("digest result: %w", err)
		}
		res.Digest = digest
	}
	return nil
}

func (d *Driver) logResolved(log zerolog.Logger) {
	if d.loader == nil {
		return
	}
	counts := d.loader.Resolved()
	if len(counts) == 0 {
		return
	}
	ev := log.Debug()
	for src, n := range counts {
		ev = ev.Int(string(src), n)
	}
	ev.Msg("contexts resolved")
}

// Write writes b to w, reporting failures and short writes as OutputError.
func Write(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &OutputError{Err: err}
	}
	return nil
}
