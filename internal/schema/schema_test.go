package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidate_ValidFrames(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	frames := map[string]string{
		"type only":      `{"@type": "Person"}`,
		"remote context": `{"@context": "https://example.org/context.jsonld", "@type": ["Person", "Agent"]}`,
		"inline context": `{"@context": {"@vocab": "http://schema.org/"}, "@explicit": true}`,
		"context array":  `{"@context": ["https://example.org/a.jsonld", {"x": "http://x/"}, null]}`,
		"null context":   `{"@context": null}`,
		"wildcard type":  `{"@type": {}}`,
		"embed keyword":  `{"@embed": "@always", "@omitDefault": false, "@requireAll": true}`,
		"embed boolean":  `{"@embed": false}`,
		"property frame": `{"@type": "Person", "knows": {"@embed": "@never"}, "name": {}}`,
		"empty":          `{}`,
	}

	for name, src := range frames {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, v.Validate(decode(t, src)))
		})
	}
}

func TestValidate_InvalidKeywords(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		src     string
		keyword string
	}{
		{"embed value", `{"@embed": "@sometimes"}`, "@embed"},
		{"explicit type", `{"@explicit": "yes"}`, "@explicit"},
		{"type number", `{"@type": 42}`, "@type"},
		{"type non-empty object", `{"@type": {"a": 1}}`, "@type"},
		{"id list of numbers", `{"@id": [1, 2]}`, "@id"},
		{"context number", `{"@context": 5}`, "@context"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := v.Validate(decode(t, tt.src))
			require.NotEmpty(t, violations)

			found := false
			for _, viol := range violations {
				if strings.Contains(viol.Path, tt.keyword) {
					found = true
				}
			}
			assert.True(t, found, "no violation for %s in %v", tt.keyword, violations)
		})
	}
}

func TestValidate_NotAnObject(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	for src, kind := range map[string]string{`[]`: "array", `"x"`: "string", `null`: "null", `1`: "number"} {
		violations := v.Validate(decode(t, src))
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0].Message, "got "+kind)
	}
}

func TestViolationString(t *testing.T) {
	assert.Equal(t, "msg", Violation{Message: "msg"}.String())
	assert.Equal(t, "@embed: msg", Violation{Path: "@embed", Message: "msg"}.String())
}

func TestTrimDefinition(t *testing.T) {
	assert.Equal(t, `"@embed"`, trimDefinition([]string{"#Frame", `"@embed"`}))
	assert.Equal(t, "a.b", trimDefinition([]string{"a", "b"}))
	assert.Equal(t, "", trimDefinition(nil))
}
