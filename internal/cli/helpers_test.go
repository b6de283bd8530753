package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testData = `{
  "@context": {"@vocab": "http://schema.org/"},
  "@graph": [
    {"@id": "http://example.org/jane", "@type": "Person", "name": "Jane"},
    {"@id": "http://example.org/acme", "@type": "Organization", "name": "ACME"}
  ]
}`

type cliResult struct {
	stdout string
	stderr string
	code   int
}

// runCLI executes the CLI with an isolated environment.
func runCLI(t *testing.T, env map[string]string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	opts := &RootOptions{Lookup: func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}}
	code := execute(context.Background(), opts, args, &out, &errOut)
	return cliResult{stdout: out.String(), stderr: errOut.String(), code: code}
}

type workspace struct {
	dir       string
	schemaDir string
	data      string
}

// newWorkspace creates a schema directory with person and org frames and a
// two-node data document.
func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	ws := &workspace{
		dir:       dir,
		schemaDir: filepath.Join(dir, "schema"),
		data:      filepath.Join(dir, "data.jsonld"),
	}
	require.NoError(t, os.MkdirAll(ws.schemaDir, 0o755))
	ws.write(t, ws.data, testData)
	ws.frame(t, "person", `{"@context": {"@vocab": "http://schema.org/"}, "@type": "Person"}`)
	ws.frame(t, "org", `{"@context": {"@vocab": "http://schema.org/"}, "@type": "Organization"}`)
	return ws
}

func (ws *workspace) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (ws *workspace) frame(t *testing.T, name, content string) {
	t.Helper()
	ws.write(t, filepath.Join(ws.schemaDir, name+".jsonld"), content)
}

// flags returns the flags pointing a command at the workspace.
func (ws *workspace) flags() []string {
	return []string{"--schema-dir", ws.schemaDir, "--data", ws.data, "--offline"}
}

func args(parts ...any) []string {
	var out []string
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			out = append(out, v)
		case []string:
			out = append(out, v...)
		}
	}
	return out
}
