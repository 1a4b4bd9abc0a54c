package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the accepted shape of a config file. Unknown keys are allowed.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "showOutput":        { "type": "boolean" },
    "tareRuns":          { "type": "boolean" },
    "formatMemoryUsage": { "type": "boolean" },
    "debug":             { "type": "boolean" },
    "iterations":        { "type": "integer", "minimum": 0 },
    "suites":            { "type": "array", "items": { "type": "string", "minLength": 1 } },
    "format":            { "type": "string", "enum": ["plain", "text", "html"] },
    "export":            { "type": "string" },
    "exportFormat":      { "type": "string", "enum": ["json", "yaml"] },
    "metricsFile":       { "type": "string" },
    "logFile":           { "type": "string" },
    "options":           { "type": "object" }
  },
  "additionalProperties": true
}`

var schemaLoader = gojsonschema.NewStringLoader(configSchema)

// ValidateDocument checks a raw JSON config document against the config schema.
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate config document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("config document does not match schema: %s", strings.Join(problems, "; "))
}
