package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: person_basic
description: Person frame selects Jane
frame: person
assertions:
  - type: contains_type
    value: Person
  - type: excludes_type
    value: Organization
  - type: node_count
    count: 1
  - type: path_equals
    path: $.name
    expect: Jane
`

const failingScenario = `name: org_wrong
description: Org frame never yields a Person
frame: org
assertions:
  - type: contains_type
    value: Person
`

const expectErrorScenario = `name: missing_frame
description: Unknown frame names fail
frame: nope
expect_error: missing_frame
`

func writeScenarios(t *testing.T, ws *workspace, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(ws.dir, "scenarios")
	for name, content := range files {
		ws.write(t, filepath.Join(dir, name), content)
	}
	return dir
}

func TestTest_AllPass(t *testing.T) {
	ws := newWorkspace(t)
	dir := writeScenarios(t, ws, map[string]string{
		"person.yaml":  passingScenario,
		"missing.yaml": expectErrorScenario,
	})

	res := runCLI(t, nil, args("test", dir, ws.flags())...)
	require.Equal(t, ExitSuccess, res.code, res.stdout+res.stderr)
	assert.Contains(t, res.stdout, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, res.stdout, "✓ All scenarios passed")
}

func TestTest_Failure(t *testing.T) {
	ws := newWorkspace(t)
	dir := writeScenarios(t, ws, map[string]string{
		"person.yaml": passingScenario,
		"org.yaml":    failingScenario,
	})

	res := runCLI(t, nil, args("test", dir, ws.flags())...)
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stdout, "✗ org_wrong")
	assert.Contains(t, res.stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTest_Filter(t *testing.T) {
	ws := newWorkspace(t)
	dir := writeScenarios(t, ws, map[string]string{
		"person.yaml": passingScenario,
		"org.yaml":    failingScenario,
	})

	res := runCLI(t, nil, args("test", dir, ws.flags(), "--filter", "person_*")...)
	require.Equal(t, ExitSuccess, res.code, res.stdout+res.stderr)
	assert.Contains(t, res.stdout, "1 passed, 0 failed, 1 total, 1 skipped")
}

func TestTest_UpdateWritesGoldens(t *testing.T) {
	ws := newWorkspace(t)
	dir := writeScenarios(t, ws, map[string]string{"person.yaml": passingScenario})

	res := runCLI(t, nil, args("test", dir, ws.flags(), "--update")...)
	require.Equal(t, ExitSuccess, res.code, res.stdout+res.stderr)
	assert.Contains(t, res.stdout, "Updated 1 golden file(s)")

	golden := filepath.Join(dir, "person.yaml.golden")
	require.FileExists(t, golden)

	// The second run compares against the snapshot just written.
	res = runCLI(t, nil, args("test", dir, ws.flags())...)
	require.Equal(t, ExitSuccess, res.code, res.stdout+res.stderr)

	// A changed data document now breaks the snapshot.
	ws.write(t, ws.data, `{"@context": {"@vocab": "http://schema.org/"}, "@id": "http://example.org/jane", "@type": "Person", "name": "Jane", "email": "jane@example.org"}`)
	res = runCLI(t, nil, args("test", dir, ws.flags())...)
	assert.Equal(t, ExitFailure, res.code)
}

func TestTest_JSON(t *testing.T) {
	ws := newWorkspace(t)
	dir := writeScenarios(t, ws, map[string]string{"org.yaml": failingScenario})

	res := runCLI(t, nil, args("test", dir, ws.flags(), "--format", "json")...)
	assert.Equal(t, ExitFailure, res.code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTest_MissingDir(t *testing.T) {
	ws := newWorkspace(t)
	res := runCLI(t, nil, args("test", filepath.Join(ws.dir, "absent"), ws.flags())...)

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E201]")
	assert.Contains(t, res.stderr, "scenarios directory not found")
}

func TestTest_EmptyDir(t *testing.T) {
	ws := newWorkspace(t)
	dir := filepath.Join(ws.dir, "empty")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	res := runCLI(t, nil, args("test", dir, ws.flags())...)
	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "No scenarios found.")
}
