// Package schema checks that frame documents have well-formed framing
// keywords before they reach the JSON-LD processor.
//
// The rules live in frame.cue and are evaluated with the CUE Go API.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed frame.cue
var frameSchema string

// Violation is one schema failure in a frame document.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validator evaluates frame documents against the embedded schema.
type Validator struct {
	ctx   *cue.Context
	frame cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(frameSchema, cue.Filename("frame.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile frame schema: %w", err)
	}

	frame := v.LookupPath(cue.ParsePath("#Frame"))
	if !frame.Exists() {
		return nil, fmt.Errorf("compile frame schema: #Frame not defined")
	}
	return &Validator{ctx: ctx, frame: frame}, nil
}

// Validate returns the violations found in doc, or nil when it conforms.
func (s *Validator) Validate(doc any) []Violation {
	if _, ok := doc.(map[string]any); !ok {
		return []Violation{{Message: fmt.Sprintf("frame must be a JSON object, got %s", jsonKind(doc))}}
	}

	val := s.ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return []Violation{{Message: err.Error()}}
	}

	unified := s.frame.Unify(val)
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var out []Violation
	seen := make(map[string]bool)
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		v := Violation{
			Path:    trimDefinition(e.Path()),
			Message: fmt.Sprintf(format, args...),
		}
		key := v.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// trimDefinition drops the leading #Frame selector from an error path.
func trimDefinition(path []string) string {
	if len(path) > 0 && path[0] == "#Frame" {
		path = path[1:]
	}
	return strings.Join(path, ".")
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
