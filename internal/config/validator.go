package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// SupportedMethods are the HTTP verbs an action may use.
var SupportedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

// Validate checks the scenario after defaults were applied.
//
// Returns nil if valid, or a ValidationErrors containing every problem found.
func (s *Scenario) Validate() error {
	errs := &ValidationErrors{}

	u, err := url.Parse(s.Domain)
	if err != nil {
		errs.Add("domain", fmt.Sprintf("invalid URL: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs.Add("domain", fmt.Sprintf("unsupported scheme %q, want http or https", u.Scheme))
	} else if u.Host == "" {
		errs.Add("domain", "host is required")
	}

	for i, action := range s.Actions {
		validateAction(fmt.Sprintf("actions[%d]", i), &action, errs)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// validateAction validates a single action.
func validateAction(prefix string, a *Action, errs *ValidationErrors) {
	method := strings.ToUpper(a.Method)
	if method == "" {
		errs.Add(prefix+".method", "method is required")
	} else if !SupportedMethods[method] {
		errs.Add(prefix+".method", fmt.Sprintf("invalid HTTP method: %s", a.Method))
	}

	// Placeholders may hold characters url.Parse rejects until they are resolved.
	if _, err := url.Parse(placeholderRE.ReplaceAllString(a.Path, "placeholder")); err != nil {
		errs.Add(prefix+".path", fmt.Sprintf("invalid path: %v", err))
	}

	switch a.PostParams.(type) {
	case nil, string, map[string]interface{}:
	default:
		errs.Add(prefix+".post_params", fmt.Sprintf("unsupported post_params type %T", a.PostParams))
	}
}
