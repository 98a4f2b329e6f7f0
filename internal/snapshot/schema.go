package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema describing a snapshot record.
// Unknown properties are allowed because readers ignore them.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
	}
	schema := reflector.Reflect(new(Snapshot))
	schema.Title = "Adventure actor snapshot"
	schema.Description = "Per-actor save record, one per actor id"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal schema: %w", err)
	}
	return data, nil
}
