package framing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"
)

// Processing modes accepted by Options.ProcessingMode.
const (
	ModeJSONLD10 = "json-ld-1.0"
	ModeJSONLD11 = "json-ld-1.1"
)

// EmbedOnce embeds a node the first time it is referenced within a
// top-level result and leaves later references as {"@id": ...}. It is the
// JSON-LD 1.1 default.
const EmbedOnce = "@once"

// EmbedValues lists the accepted Options.Embed values.
var EmbedValues = []string{"@always", EmbedOnce, "@never", "@last", "@link"}

// Options maps onto json-gold's JsonLdOptions. Zero values leave the
// library defaults in place.
type Options struct {
	Base           string
	ProcessingMode string
	Embed          string
	Explicit       bool
	RequireAll     bool
	OmitDefault    bool
	OmitGraph      bool
}

// Framer runs JSON-LD operations with a fixed option set and loader.
type Framer struct {
	proc   *ld.JsonLdProcessor
	opts   Options
	loader ld.DocumentLoader
}

// New returns a Framer. A nil loader keeps json-gold's default HTTP loader.
func New(opts Options, loader ld.DocumentLoader) *Framer {
	return &Framer{
		proc:   ld.NewJsonLdProcessor(),
		opts:   opts,
		loader: loader,
	}
}

// Frame applies frame to data and returns the framed document.
func (f *Framer) Frame(data, frame any) (result map[string]any, err error) {
	defer recoverInto("frame", &err)

	opts := f.ldOptions()
	switch {
	case f.opts.Embed != EmbedOnce:
		result, err = f.proc.Frame(data, frame, opts)
	case hasEmbedFlag(frame):
		// Explicit @embed values would be collapsed by frameOnce.
		opts.Embed = ld.EmbedLast
		result, err = f.proc.Frame(data, frame, opts)
	default:
		result, err = f.frameOnce(data, frame, opts)
	}
	if err != nil {
		return nil, wrap("frame", err)
	}
	return result, nil
}

// Flatten flattens data. When context is non-nil the result is compacted
// against it; a document with an "@context" key contributes only that value.
func (f *Framer) Flatten(data, context any) (result any, err error) {
	defer recoverInto("flatten", &err)

	if m, ok := context.(map[string]any); ok {
		if inner, has := m["@context"]; has {
			context = inner
		}
	}
	result, err = f.proc.Flatten(data, context, f.ldOptions())
	if err != nil {
		return nil, wrap("flatten", err)
	}
	return result, nil
}

// Expand returns the expanded form of doc.
func (f *Framer) Expand(doc any) (result []any, err error) {
	defer recoverInto("expand", &err)

	result, err = f.proc.Expand(doc, f.ldOptions())
	if err != nil {
		return nil, wrap("expand", err)
	}
	return result, nil
}

func (f *Framer) ldOptions() *ld.JsonLdOptions {
	o := ld.NewJsonLdOptions(f.opts.Base)
	if f.opts.ProcessingMode != "" {
		o.ProcessingMode = f.opts.ProcessingMode
	}
	if f.loader != nil {
		o.DocumentLoader = f.loader
	}
	switch f.opts.Embed {
	case "":
	case EmbedOnce:
		// json-gold has no @once; frameOnce collapses @always output.
		o.Embed = ld.EmbedAlways
	default:
		o.Embed = ld.Embed(f.opts.Embed)
	}
	o.Explicit = f.opts.Explicit
	o.RequireAll = f.opts.RequireAll
	o.OmitDefault = f.opts.OmitDefault
	o.OmitGraph = f.opts.OmitGraph
	return o
}

// FramingError reports a failure inside the JSON-LD processor.
type FramingError struct {
	Op   string // "frame", "flatten" or "expand"
	Code string // json-gold error code, empty when unavailable
	Err  error
}

func (e *FramingError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *FramingError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	fe := &FramingError{Op: op, Err: err}
	var ldErr *ld.JsonLdError
	if errors.As(err, &ldErr) {
		fe.Code = string(ldErr.Code)
	}
	return fe
}

// json-gold type-asserts its way through documents and can panic on inputs
// that are valid JSON but not valid JSON-LD.
func recoverInto(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	msg := strings.TrimSpace(fmt.Sprint(r))
	*err = &FramingError{Op: op, Err: fmt.Errorf("processor panic: %s", msg)}
}
