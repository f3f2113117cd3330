package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_YAML(t *testing.T) {
	yamlScenario := `
domain: http://example.test
user_agent: custom/1.0
consts:
  token: v1
query_params:
  key: "%(token)%"
actions:
  - method: get
    path: /ok
  - method: POST
    path: /items/%(token)%
    post_params: '{"id": "%(token)%"}'
  - path: /default
`
	scenario, err := ParseScenario([]byte(yamlScenario), "scenario.yaml")
	require.NoError(t, err)

	assert.Equal(t, "http://example.test", scenario.Domain)
	assert.Equal(t, "custom/1.0", scenario.UserAgent)
	require.Len(t, scenario.Actions, 3)

	assert.Equal(t, "GET", scenario.Actions[0].Method)
	assert.Equal(t, "/ok", scenario.Actions[0].Path)

	assert.Equal(t, "POST", scenario.Actions[1].Method)
	assert.Equal(t, "/items/v1", scenario.Actions[1].Path)
	assert.Equal(t, `{"id": "v1"}`, scenario.Actions[1].PostParams)

	assert.Equal(t, "GET", scenario.Actions[2].Method, "method defaults to GET")
	assert.Equal(t, "v1", scenario.QueryParams["key"])
}

func TestParseScenario_JSON(t *testing.T) {
	jsonScenario := `{
	"domain": "https://api.example.test/",
	"consts": {"id": 42},
	"actions": [
		{"path": "/users/%(id)%"},
		{"method": "PUT", "path": "/users", "post_params": {"name": "alice"}}
	]
}`
	scenario, err := ParseScenario([]byte(jsonScenario), "scenario.json")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test/", scenario.Domain)
	assert.Equal(t, DefaultUserAgent, scenario.UserAgent)
	require.Len(t, scenario.Actions, 2)
	assert.Equal(t, "/users/42", scenario.Actions[0].Path)
	assert.Equal(t, map[string]interface{}{"name": "alice"}, scenario.Actions[1].PostParams)
}

func TestParseScenario_Defaults(t *testing.T) {
	scenario, err := ParseScenario([]byte("actions:\n  - path: /\n"), "scenario.yml")
	require.NoError(t, err)

	assert.Equal(t, DefaultDomain, scenario.Domain)
	assert.Equal(t, DefaultUserAgent, scenario.UserAgent)
}

func TestParseScenario_NoActions(t *testing.T) {
	scenario, err := ParseScenario([]byte("domain: http://example.test\n"), "scenario.yaml")
	require.NoError(t, err)
	assert.Empty(t, scenario.Actions)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		path    string
		wantMsg string
	}{
		{
			name:    "malformed yaml",
			data:    "domain: [unclosed",
			path:    "scenario.yaml",
			wantMsg: "failed to parse YAML scenario",
		},
		{
			name:    "malformed json",
			data:    `{"domain": `,
			path:    "scenario.json",
			wantMsg: "failed to parse JSON scenario",
		},
		{
			name:    "empty document",
			data:    "",
			path:    "scenario.yaml",
			wantMsg: "empty",
		},
		{
			name:    "actions not a list",
			data:    "actions: /ok\n",
			path:    "scenario.yaml",
			wantMsg: "actions",
		},
		{
			name:    "action without path",
			data:    "actions:\n  - method: GET\n",
			path:    "scenario.yaml",
			wantMsg: "path",
		},
		{
			name:    "unknown verb",
			data:    "actions:\n  - method: FETCH\n    path: /\n",
			path:    "scenario.yaml",
			wantMsg: "invalid HTTP method: FETCH",
		},
		{
			name:    "bad domain scheme",
			data:    "domain: ftp://example.test\nactions:\n  - path: /\n",
			path:    "scenario.yaml",
			wantMsg: "unsupported scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.data), tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domain: http://example.test\nactions:\n  - path: /ok\n"), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", scenario.Domain)
	assert.Len(t, scenario.Actions, 1)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read")
}

func TestScenario_URLFor(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		path   string
		query  map[string]string
		want   string
	}{
		{"absolute path", "http://example.test", "/ok", nil, "http://example.test/ok"},
		{"trailing slash domain", "http://example.test/", "/ok", nil, "http://example.test/ok"},
		{"relative path", "http://example.test/api/", "users", nil, "http://example.test/api/users"},
		{"path with query", "http://example.test", "/search?q=go", nil, "http://example.test/search?q=go"},
		{"query params", "http://example.test", "/ok", map[string]string{"a": "1"}, "http://example.test/ok?a=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scenario{Domain: tt.domain, QueryParams: tt.query}
			got, err := s.URLFor(Action{Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScenario_Clone(t *testing.T) {
	original := Scenario{
		Domain:      "http://example.test",
		Actions:     []Action{{Path: "/a", Method: "POST", PostParams: map[string]interface{}{"k": "v"}}},
		Consts:      map[string]string{"x": "1"},
		QueryParams: map[string]string{"q": "1"},
	}

	clone := original.Clone()
	clone.Actions[0].Path = "/b"
	clone.Actions[0].PostParams.(map[string]interface{})["k"] = "changed"
	clone.Consts["x"] = "2"
	clone.QueryParams["q"] = "2"

	assert.Equal(t, "/a", original.Actions[0].Path)
	assert.Equal(t, "v", original.Actions[0].PostParams.(map[string]interface{})["k"])
	assert.Equal(t, "1", original.Consts["x"])
	assert.Equal(t, "1", original.QueryParams["q"])
}
