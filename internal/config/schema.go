package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// scenarioSchema describes the structure of a scenario document. Semantic
// checks (verbs, domain) live in Validate so their messages stay readable.
const scenarioSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "domain": {"type": "string"},
    "user_agent": {"type": "string"},
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path"],
        "properties": {
          "path": {"type": "string"},
          "method": {"type": "string"},
          "scan": {"type": "string"},
          "post_params": {"type": ["string", "object", "null"]}
        }
      }
    },
    "consts": {
      "type": "object",
      "additionalProperties": {"type": ["string", "number", "boolean"]}
    },
    "query_params": {
      "type": "object",
      "additionalProperties": {"type": ["string", "number", "boolean"]}
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func scenarioJSONSchema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("scenario.json", strings.NewReader(scenarioSchema)); err != nil {
			compiledSchemaErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile("scenario.json")
	})
	return compiledSchema, compiledSchemaErr
}

// validateSchema checks a decoded document against the scenario schema and
// reports every violation as a ValidationErrors.
func validateSchema(doc interface{}) error {
	schema, err := scenarioJSONSchema()
	if err != nil {
		return err
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	errs := &ValidationErrors{}
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		collectSchemaErrors(ve, errs)
	}
	if !errs.HasErrors() {
		errs.Add("", err.Error())
	}
	return errs
}

// collectSchemaErrors flattens the leaf causes of a schema validation error.
func collectSchemaErrors(err *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(err.Causes) == 0 {
		field := strings.TrimPrefix(err.InstanceLocation, "/")
		errs.Add(strings.ReplaceAll(field, "/", "."), err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}
