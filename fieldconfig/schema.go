package fieldconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/poiesic/enrichproxy/core"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaMap describes the accepted payload. Emptiness of attributes is left
// to Decode so it can be reported separately from malformed payloads.
func schemaMap() map[string]any {
	ops := make([]any, 0, len(core.Operations()))
	for _, op := range core.Operations() {
		ops = append(ops, op.String())
	}
	langs := []any{""}
	for _, l := range core.Languages() {
		langs = append(langs, string(l))
	}

	return map[string]any{
		"type":     "object",
		"required": []any{"fieldConfigurations"},
		"properties": map[string]any{
			"fieldConfigurations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"indexName": map[string]any{"type": "string"},
						"fieldName": map[string]any{"type": "string"},
						"operations": map[string]any{
							"type":  "array",
							"items": map[string]any{"enum": ops},
						},
						"languageCode": map[string]any{"enum": langs},
					},
				},
			},
		},
	}
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("schema.json")
})

// validate checks data against the configuration schema.
func validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}
