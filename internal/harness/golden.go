package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ldframe/internal/canonical"
)

// GoldenSuffix is appended to a scenario file path to name its snapshot.
const GoldenSuffix = ".golden"

// Snapshot captures the observable outcome of a scenario run. It is
// serialized as canonical JSON so snapshots are byte-stable.
type Snapshot struct {
	Scenario  string
	Frame     string
	Nodes     int
	Types     []string
	ErrorKind string
	Result    any
}

// NewSnapshot builds the snapshot of result for scenario s.
func NewSnapshot(s *Scenario, result *Result) Snapshot {
	return Snapshot{
		Scenario:  s.Name,
		Frame:     s.Frame,
		Nodes:     result.Nodes,
		Types:     result.Types,
		ErrorKind: result.ErrorKind,
		Result:    result.Value,
	}
}

func (s Snapshot) toCanonicalMap() map[string]any {
	types := make([]any, len(s.Types))
	for i, t := range s.Types {
		types[i] = t
	}

	m := map[string]any{
		"scenario": s.Scenario,
		"frame":    s.Frame,
		"nodes":    s.Nodes,
		"types":    types,
	}
	if s.ErrorKind != "" {
		m["error_kind"] = s.ErrorKind
	}
	if s.Result != nil {
		m["result"] = s.Result
	}
	return m
}

// Marshal returns the canonical JSON form of the snapshot with a trailing
// newline.
func (s Snapshot) Marshal() ([]byte, error) {
	b, err := canonical.Marshal(s.toCanonicalMap())
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(b, '\n'), nil
}

// ErrGoldenMismatch is returned by CompareGolden when the snapshot differs.
var ErrGoldenMismatch = errors.New("golden snapshot mismatch")

// CompareGolden compares snapshot against the file at path. With update
// set the file is (re)written instead. A missing file is not an error unless
// required is set; the returned bool reports whether a comparison happened.
func CompareGolden(path string, snapshot Snapshot, update, required bool) (bool, error) {
	got, err := snapshot.Marshal()
	if err != nil {
		return false, err
	}

	if update {
		if err := os.WriteFile(path, got, 0o644); err != nil {
			return false, fmt.Errorf("write golden %s: %w", path, err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return false, nil
		}
		return false, fmt.Errorf("read golden %s: %w", path, err)
	}
	if !bytes.Equal(want, got) {
		return true, fmt.Errorf("%w: %s", ErrGoldenMismatch, path)
	}
	return true, nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/<scenario name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario, runner Runner) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), s, runner)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, s, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, s *Scenario, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(s, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, s.Name, data)
	return nil
}
