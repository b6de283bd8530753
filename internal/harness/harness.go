package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/ldframe/internal/config"
	"github.com/roach88/ldframe/internal/document"
	"github.com/roach88/ldframe/internal/driver"
	"github.com/roach88/ldframe/internal/framing"
)

// Runner frames the data for a scenario.
type Runner interface {
	Frame(ctx context.Context, s *Scenario) (*driver.Result, error)
}

// DriverRunner runs scenarios through a fresh driver built from Config,
// with the scenario's data override applied.
type DriverRunner struct {
	Config  config.Config
	Options driver.Options
}

// Frame implements Runner.
func (r DriverRunner) Frame(ctx context.Context, s *Scenario) (*driver.Result, error) {
	cfg := r.Config
	if s.Data != "" {
		cfg.Data = s.Data
	}

	d, err := driver.Open(ctx, cfg, r.Options)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return d.Frame(ctx, s.Frame, true)
}

// Run executes a scenario and evaluates its assertions.
//
// A run error that matches the scenario's expect_error passes. Errors that
// cannot be classified (the driver could not even be set up) are returned
// as the error value rather than recorded in the result.
func Run(ctx context.Context, s *Scenario, runner Runner) (*Result, error) {
	result := NewResult(s.Name)

	res, err := runner.Frame(ctx, s)
	if err != nil {
		kind := Classify(err)
		if kind == "" {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		result.ErrorKind = kind

		switch s.ExpectError {
		case "":
			result.AddError(fmt.Sprintf("run failed (%s): %v", kind, err))
		case kind:
		default:
			result.AddError(fmt.Sprintf("expected %s error, got %s: %v", s.ExpectError, kind, err))
		}
		return result, nil
	}

	if s.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected %s error, run succeeded", s.ExpectError))
	}

	var value any
	if err := json.Unmarshal(res.Output, &value); err != nil {
		return nil, fmt.Errorf("scenario %s: decode output: %w", s.Name, err)
	}
	result.Value = value
	result.Output = res.Output
	result.Digest = res.Digest
	result.Nodes = res.Nodes
	result.Types = framing.Types(value)

	for _, msg := range EvaluateAssertions(result, s.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// Classify maps a run error to an expect_error class, or "" when the error
// is not one a scenario can expect.
func Classify(err error) string {
	if kind := document.KindOf(err); kind != document.KindNone {
		return string(kind)
	}
	var fe *framing.FramingError
	if errors.As(err, &fe) {
		return ErrorFraming
	}
	return ""
}
