package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against a successful result
// and returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertContainsType:
			err = assertContainsType(result.Types, assertion)
		case AssertExcludesType:
			err = assertExcludesType(result.Types, assertion)
		case AssertNodeCount:
			err = assertNodeCount(result.Nodes, assertion)
		case AssertPathEquals:
			err = assertPathEquals(result.Value, assertion)
		case AssertPathExists:
			err = assertPathExists(result.Value, assertion)
		case AssertDigest:
			err = assertDigest(result.Digest, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}

func assertContainsType(types []string, a Assertion) error {
	if slices.Contains(types, a.Value) {
		return nil
	}
	return &AssertionError{
		Type:     AssertContainsType,
		Expected: fmt.Sprintf("a node of type %s", a.Value),
		Actual:   fmt.Sprintf("types %v", types),
	}
}

func assertExcludesType(types []string, a Assertion) error {
	if !slices.Contains(types, a.Value) {
		return nil
	}
	return &AssertionError{
		Type:     AssertExcludesType,
		Expected: fmt.Sprintf("no node of type %s", a.Value),
		Actual:   fmt.Sprintf("types %v", types),
	}
}

func assertNodeCount(nodes int, a Assertion) error {
	if a.Count != nil && nodes == *a.Count {
		return nil
	}
	want := -1
	if a.Count != nil {
		want = *a.Count
	}
	return &AssertionError{
		Type:     AssertNodeCount,
		Expected: fmt.Sprintf("%d top-level nodes", want),
		Actual:   fmt.Sprintf("%d top-level nodes", nodes),
	}
}

func assertPathEquals(doc any, a Assertion) error {
	got, err := jsonpath.Get(a.Path, doc)
	if err != nil {
		return &AssertionError{
			Type:     AssertPathEquals,
			Expected: fmt.Sprintf("%s = %s", a.Path, describe(a.Expect)),
			Actual:   err.Error(),
		}
	}

	want, err := normalize(a.Expect)
	if err != nil {
		return fmt.Errorf("path_equals %s: %w", a.Path, err)
	}
	if valuesEqual(got, want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertPathEquals,
		Expected: fmt.Sprintf("%s = %s", a.Path, describe(want)),
		Actual:   describe(got),
	}
}

func assertPathExists(doc any, a Assertion) error {
	got, err := jsonpath.Get(a.Path, doc)
	if err == nil {
		if list, ok := got.([]any); !ok || len(list) > 0 {
			return nil
		}
	}

	actual := "no match"
	if err != nil {
		actual = err.Error()
	}
	return &AssertionError{
		Type:     AssertPathExists,
		Expected: fmt.Sprintf("a match for %s", a.Path),
		Actual:   actual,
	}
}

func assertDigest(digest string, a Assertion) error {
	if strings.EqualFold(digest, a.Value) {
		return nil
	}
	return &AssertionError{
		Type:     AssertDigest,
		Expected: a.Value,
		Actual:   digest,
	}
}

// normalize converts a YAML-decoded value to the shapes encoding/json
// produces, so integers compare equal to float64.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}
	return reflect.DeepEqual(actual, expected)
}

func describe(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
