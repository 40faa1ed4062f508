package advisor

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// generatedSchema constrains what a model-backed engine may return before
// any of it is turned into domain records.
const generatedSchema = `{
	"type": "object",
	"required": ["recommendations"],
	"properties": {
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["tail_number", "type", "confidence", "estimated_cost", "urgency", "reasoning"],
				"properties": {
					"tail_number": {"type": "string", "minLength": 1},
					"type": {
						"type": "string",
						"enum": ["A_CHECK", "B_CHECK", "ENGINE_INSPECTION", "AVIONICS_UPDATE", "LANDING_GEAR_SERVICE", "INTERIOR_REFRESH"]
					},
					"confidence": {"type": "number", "minimum": 0, "maximum": 100},
					"estimated_cost": {"type": "number", "minimum": 0},
					"urgency": {
						"type": "string",
						"enum": ["LOW", "MEDIUM", "HIGH", "CRITICAL"]
					},
					"reasoning": {
						"type": "array",
						"items": {"type": "string"}
					}
				}
			}
		}
	}
}`

// ValidateGenerated checks a raw model payload against the generated schema.
func ValidateGenerated(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(generatedSchema)
	dataLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}

		return fmt.Errorf("generated payload invalid: %s", strings.Join(descriptions, "; "))
	}

	return nil
}
