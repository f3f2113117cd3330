package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultDomain is used when the scenario document does not name one.
	DefaultDomain = "http://localhost:8888/"

	// DefaultUserAgent is sent with every request unless the document overrides it.
	DefaultUserAgent = "hakai/0.1"
)

// Scenario is a loaded scenario document: the origin to attack and the
// ordered list of actions replayed once per loop.
type Scenario struct {
	Domain      string            `json:"domain" yaml:"domain"`
	UserAgent   string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Actions     []Action          `json:"actions" yaml:"actions"`
	Consts      map[string]string `json:"consts,omitempty" yaml:"consts,omitempty"`
	QueryParams map[string]string `json:"query_params,omitempty" yaml:"query_params,omitempty"`
}

// Action is one request template of a scenario.
type Action struct {
	// Path is relative to the scenario domain
	Path string `json:"path" yaml:"path"`

	// Method defaults to GET
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// PostParams is the request body for POST/PUT/PATCH. Either a string
	// or a mapping of form fields.
	PostParams interface{} `json:"post_params,omitempty" yaml:"post_params,omitempty"`
}

// LoadScenario reads, validates and resolves a scenario document.
//
// The format is determined by extension:
//   - .json -> JSON
//   - anything else -> YAML
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	return ParseScenario(data, path)
}

// ParseScenario decodes scenario data, checks it against the document schema,
// applies defaults, validates it and substitutes %(name)% placeholders.
func ParseScenario(data []byte, path string) (*Scenario, error) {
	doc, err := decodeDocument(data, path)
	if err != nil {
		return nil, err
	}

	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	// JSON is valid YAML, and the YAML decoder accepts numeric consts into
	// string fields, so both formats share one decoding path from here.
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}

	ApplyDefaults(&scenario)

	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	scenario.Resolve()

	return &scenario, nil
}

// decodeDocument decodes the raw document into generic JSON values so it can
// be checked against the schema.
func decodeDocument(data []byte, path string) (interface{}, error) {
	var raw interface{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON scenario: %w", err)
		}
		return raw, nil
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML scenario: %w", err)
		}
	}

	if raw == nil {
		return nil, fmt.Errorf("scenario document %s is empty", path)
	}

	// YAML scalars decode to Go ints and times; normalize through JSON.
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("scenario document is not representable as JSON: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("scenario document is not representable as JSON: %w", err)
	}
	return doc, nil
}

// ApplyDefaults fills in values the document left out.
func ApplyDefaults(s *Scenario) {
	if s.Domain == "" {
		s.Domain = DefaultDomain
	}
	if s.UserAgent == "" {
		s.UserAgent = DefaultUserAgent
	}
	for i := range s.Actions {
		if strings.TrimSpace(s.Actions[i].Method) == "" {
			s.Actions[i].Method = "GET"
		}
		s.Actions[i].Method = strings.ToUpper(strings.TrimSpace(s.Actions[i].Method))
	}
}

// Resolve replaces %(name)% placeholders in paths, query parameter values and
// string bodies with the scenario's consts.
func (s *Scenario) Resolve() {
	for i := range s.Actions {
		a := &s.Actions[i]
		a.Path = ReplaceNames(a.Path, s.Consts)

		switch body := a.PostParams.(type) {
		case string:
			a.PostParams = ReplaceNames(body, s.Consts)
		case map[string]interface{}:
			resolved := make(map[string]interface{}, len(body))
			for k, v := range body {
				if str, ok := v.(string); ok {
					resolved[k] = ReplaceNames(str, s.Consts)
				} else {
					resolved[k] = v
				}
			}
			a.PostParams = resolved
		}
	}

	for k, v := range s.QueryParams {
		s.QueryParams[k] = ReplaceNames(v, s.Consts)
	}
}

// URLFor joins the scenario domain with an action path.
func (s *Scenario) URLFor(a Action) (string, error) {
	base, err := url.Parse(s.Domain)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", s.Domain, err)
	}

	ref, err := url.Parse(a.Path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", a.Path, err)
	}

	u := base.ResolveReference(ref)
	if len(s.QueryParams) > 0 {
		q := u.Query()
		for k, v := range s.QueryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Clone returns a deep copy, so a dispatched task never aliases the
// orchestrator's scenario.
func (s Scenario) Clone() Scenario {
	c := s

	c.Actions = make([]Action, len(s.Actions))
	copy(c.Actions, s.Actions)
	for i, a := range s.Actions {
		if m, ok := a.PostParams.(map[string]interface{}); ok {
			cm := make(map[string]interface{}, len(m))
			for k, v := range m {
				cm[k] = v
			}
			c.Actions[i].PostParams = cm
		}
	}

	c.Consts = copyStrings(s.Consts)
	c.QueryParams = copyStrings(s.QueryParams)
	return c
}

func copyStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
