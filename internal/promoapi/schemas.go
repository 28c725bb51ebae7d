package promoapi

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON schemas for every remote store response. The store is loosely
// typed on the wire; responses are validated here before decode so a
// shape mismatch degrades on the soft-fail path instead of producing
// garbage downstream.

const organizationsSchema = `{
	"type": "object",
	"required": ["organizations"],
	"properties": {
		"organizations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "contact_rate", "payment_type"],
				"properties": {
					"id": {"type": "string"},
					"name": {"type": "string", "minLength": 1},
					"contact_rate": {"type": "integer", "minimum": 0},
					"payment_type": {"type": "string", "enum": ["cash", "cashless"]}
				}
			}
		}
	}
}`

const orgStatsSchema = `{
	"type": "object",
	"required": ["org_stats"],
	"properties": {
		"org_stats": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["organization_name", "avg_per_shift", "shift_count"],
				"properties": {
					"organization_name": {"type": "string", "minLength": 1},
					"avg_per_shift": {"type": "number", "minimum": 0},
					"shift_count": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

const scheduleStatsSchema = `{
	"type": "object",
	"required": ["actual"],
	"properties": {
		"actual": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["date", "count"],
				"properties": {
					"date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
					"count": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

const accountingSchema = `{
	"type": "object",
	"required": ["shifts"],
	"properties": {
		"shifts": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["date", "contacts_count", "organization"],
				"properties": {
					"date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
					"contacts_count": {"type": "integer", "minimum": 0},
					"organization": {"type": "string"},
					"contact_rate": {"type": "integer", "minimum": 0},
					"compensation_amount": {"type": "integer"},
					"payment_type": {"type": "string"},
					"expense_amount": {"type": "integer"}
				}
			}
		}
	}
}`

// validateBody checks a raw response body against a compiled schema and
// returns a joined description of all violations, or "" when valid.
func validateBody(schema *gojsonschema.Schema, body []byte) string {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err.Error()
	}
	if result.Valid() {
		return ""
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return strings.Join(msgs, "; ")
}

func mustCompileSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(err)
	}
	return schema
}
