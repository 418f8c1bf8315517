package summarize

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// summarySchema is the shape the model is instructed to produce. Output
// that fails validation is treated the same as any other model failure.
const summarySchema = `{
  "type": "object",
  "required": ["parties", "obligations", "dates", "terms", "risks", "raw"],
  "properties": {
    "parties": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "role"],
        "properties": {
          "name": {"type": "string"},
          "role": {"type": "string"}
        }
      }
    },
    "obligations": {
      "type": "array",
      "items": {"type": "string"}
    },
    "dates": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["event", "date"],
        "properties": {
          "event": {"type": "string"},
          "date": {"type": "string"}
        }
      }
    },
    "terms": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "description"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "risks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "description", "severity"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "severity": {"type": "string", "enum": ["high", "medium", "low"]}
        }
      }
    },
    "raw": {"type": "string"}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// validateSummaryJSON checks raw model output against the summary schema.
func validateSummaryJSON(raw []byte) error {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("summary.json", strings.NewReader(summarySchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("summary.json")
	})
	if schemaErr != nil {
		return schemaErr
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("summary does not match schema: %w", err)
	}
	return nil
}
