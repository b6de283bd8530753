package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a regression case for one frame.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Frame is the frame name, resolved against the configured schema
	// directory.
	Frame string `yaml:"frame"`

	// Data overrides the configured data document. Relative paths are
	// resolved against the scenario file.
	Data string `yaml:"data,omitempty"`

	// ExpectError is the error class the run must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	Assertions []Assertion `yaml:"assertions"`

	// Path is the file the scenario was loaded from.
	Path string `yaml:"-"`
}

// Assertion checks one property of the framed result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Value is the @type for contains_type/excludes_type and the digest for
	// digest.
	Value string `yaml:"value,omitempty"`

	// Count is the expected top-level node count (node_count).
	Count *int `yaml:"count,omitempty"`

	// Path is a JSONPath expression (path_equals, path_exists).
	Path string `yaml:"path,omitempty"`

	// Expect is the expected JSONPath result (path_equals).
	Expect any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertContainsType = "contains_type"
	AssertExcludesType = "excludes_type"
	AssertNodeCount    = "node_count"
	AssertPathEquals   = "path_equals"
	AssertPathExists   = "path_exists"
	AssertDigest       = "digest"
)

// Error classes accepted by expect_error.
const (
	ErrorInvalidFrameName = "invalid_frame_name"
	ErrorMissingFrame     = "missing_frame"
	ErrorMissingData      = "missing_data"
	ErrorMalformedJSON    = "malformed_json"
	ErrorFraming          = "framing"
)

var errorClasses = []string{
	ErrorInvalidFrameName,
	ErrorMissingFrame,
	ErrorMissingData,
	ErrorMalformedJSON,
	ErrorFraming,
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected and a relative data path is resolved against the file's
// directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	scenario.Path = path
	if scenario.Data != "" && !filepath.IsAbs(scenario.Data) {
		scenario.Data = filepath.Join(filepath.Dir(path), scenario.Data)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Frame == "" {
		return fmt.Errorf("frame is required")
	}

	if s.ExpectError != "" {
		if !slices.Contains(errorClasses, s.ExpectError) {
			return fmt.Errorf("expect_error: unknown error class %q", s.ExpectError)
		}
	} else if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContainsType, AssertExcludesType:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertNodeCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for node_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for node_count", index)
		}
	case AssertPathEquals:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for path_equals", index)
		}
	case AssertPathExists:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for path_exists", index)
		}
	case AssertDigest:
		if len(a.Value) != 64 {
			return fmt.Errorf("assertions[%d]: value must be a 64-character hex digest", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
