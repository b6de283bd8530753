package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ldframe/internal/config"
	"github.com/roach88/ldframe/internal/driver"
)

const testData = `{
  "@context": {"@vocab": "http://schema.org/"},
  "@graph": [
    {"@id": "http://example.org/jane", "@type": "Person", "name": "Jane"},
    {"@id": "http://example.org/acme", "@type": "Organization", "name": "ACME"}
  ]
}`

// fakeRunner returns a fixed driver result or error.
type fakeRunner struct {
	res *driver.Result
	err error
	got []*Scenario
}

func (f *fakeRunner) Frame(_ context.Context, s *Scenario) (*driver.Result, error) {
	f.got = append(f.got, s)
	return f.res, f.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// driverRunner builds an offline DriverRunner over a temp schema directory
// holding a person frame and the two-node data document.
func driverRunner(t *testing.T) (DriverRunner, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.SchemaDir = filepath.Join(dir, "schema")
	cfg.Data = filepath.Join(dir, "data.jsonld")
	cfg.Offline = true

	writeFile(t, cfg.Data, testData)
	writeFile(t, filepath.Join(cfg.SchemaDir, "person.jsonld"),
		`{"@context": {"@vocab": "http://schema.org/"}, "@type": "Person"}`)
	writeFile(t, filepath.Join(cfg.SchemaDir, "org.jsonld"),
		`{"@context": {"@vocab": "http://schema.org/"}, "@type": "Organization"}`)

	return DriverRunner{Config: cfg, Options: driver.Options{Log: zerolog.Nop()}}, dir
}

func intPtr(n int) *int { return &n }
