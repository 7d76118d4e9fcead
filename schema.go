package docfill

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fieldSchema builds a JSON Schema for a response carrying the given field
// identifiers. Every property accepts a scalar, a single candidate object, or
// an array of candidate objects. Fields are optional (the service omits what
// it cannot find) and extra fields are tolerated; the Filler ignores entries
// no placeholder asks for.
func fieldSchema(keys []string) map[string]any {
	candidate := map[string]any{
		"type":     "object",
		"required": []any{"value"},
		"properties": map[string]any{
			"value":      map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
	}
	value := map[string]any{
		"anyOf": []any{
			map[string]any{"type": []any{"string", "number", "boolean", "null"}},
			candidate,
			map[string]any{"type": "array", "items": candidate},
		},
	}

	schema := map[string]any{"type": "object"}
	if len(keys) > 0 {
		props := make(map[string]any, len(keys))
		for _, k := range keys {
			props[k] = value
		}
		schema["properties"] = props
	}
	return schema
}

// validateAgainstSchema validates data against schemaMap.
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
