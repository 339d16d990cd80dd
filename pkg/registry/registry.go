// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindByTaskType returns the activity registered for a Zeebe task type.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// ValidateSchemas checks that every registered input/output schema is a
// well-formed JSON Schema. Run at startup so bad registry edits fail fast.
func (r *ActivityRegistry) ValidateSchemas() error {
	for _, a := range r.Activities {
		for name, schema := range map[string]map[string]interface{}{
			"inputSchema":  a.InputSchema,
			"outputSchema": a.OutputSchema,
		} {
			if len(schema) == 0 {
				continue
			}
			loader := gojsonschema.NewGoLoader(schema)
			if _, err := gojsonschema.NewSchema(loader); err != nil {
				return fmt.Errorf("activity %s: invalid %s: %w", a.ID, name, err)
			}
		}
	}
	return nil
}

// ValidateAgainst validates a payload against an activity schema.
func ValidateAgainst(schema, data map[string]interface{}) error {
	if len(schema) == 0 {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %v", errs)
	}

	return nil
}
