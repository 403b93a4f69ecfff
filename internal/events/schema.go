package events

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/models"
)

const eventRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "event_type", "destination", "method_type"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 255},
		"event_type": {"type": "string", "enum": ["INTERVAL", "FIXED_TIME", "ONE_TIME"]},
		"destination": {
			"type": "string",
			"format": "uri",
			"pattern": "^[hH][tT][tT][pP][sS]?://",
			"maxLength": 2048
		},
		"method_type": {"type": "string", "enum": ["GET", "POST", "PUT", "DELETE"]},
		"payload": {"type": ["string", "null"]},
		"is_test": {"type": "boolean"},
		"interval_minutes": {"type": ["integer", "null"], "minimum": 1, "maximum": 525600},
		"fixed_time": {
			"type": ["string", "null"],
			"pattern": "^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$"
		}
	}
}`

var eventSchema = mustCompileSchema(eventRequestSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile event schema: %v", err))
	}
	return schema
}

// validateRequest checks req against the event schema and reports every failed rule.
func validateRequest(req models.EventRequest) error {
	result, err := eventSchema.Validate(gojsonschema.NewGoLoader(req))
	if err != nil {
		return apperr.NewValidationError("invalid event: %v", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return apperr.NewValidationErrors("invalid event", details)
}
