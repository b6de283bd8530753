package driver

import (
	"github.com/roach88/ldframe/internal/document"
	"github.com/roach88/ldframe/internal/schema"
)

// Report is the outcome of checking one document.
type Report struct {
	Name       string             `json:"name"`
	Path       string             `json:"path"`
	Err        error              `json:"-"`
	Violations []schema.Violation `json:"violations,omitempty"`
}

// OK reports whether the document parsed and has no violations.
func (r Report) OK() bool {
	return r.Err == nil && len(r.Violations) == 0
}

// CheckFrame parses the named frame and validates its shape.
func (d *Driver) CheckFrame(name string) Report {
	r := Report{Name: name}

	path, err := document.ResolveFramePath(d.cfg.SchemaDir, name, d.cfg.FrameExt)
	if err != nil {
		r.Err = err
		return r
	}
	r.Path = path

	frame, err := document.LoadFrame(name, path)
	if err != nil {
		r.Err = err
		return r
	}
	r.Violations = d.schema.Validate(frame)
	return r
}

// CheckData parses the data document.
func (d *Driver) CheckData() Report {
	r := Report{Name: "data", Path: d.cfg.Data}
	if _, err := document.LoadData(d.cfg.Data); err != nil {
		r.Err = err
	}
	return r
}

// Frames lists the frame names available in the schema directory.
func (d *Driver) Frames() ([]string, error) {
	return document.ListFrames(d.cfg.SchemaDir, d.cfg.FrameExt)
}
