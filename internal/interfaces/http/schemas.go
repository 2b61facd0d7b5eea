package http

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const documentDefinition = `{
	"type": "object",
	"required": ["name", "status"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"status": {"enum": ["Pending", "Received", "Sent", "Attested", "OnHand"]},
		"collectionMethod": {"type": "string"},
		"verificationStatus": {"type": "string"},
		"url": {"type": "string"}
	},
	"additionalProperties": false
}`

const paymentDefinition = `{
	"type": "object",
	"properties": {
		"agreed": {"type": "number", "minimum": 0},
		"additional": {"type": "number", "minimum": 0},
		"received": {"type": "number", "minimum": 0}
	},
	"additionalProperties": false
}`

var transitionSchema = mustSchema(`{
	"type": "object",
	"required": ["targetStage", "actorId", "actorRole"],
	"properties": {
		"targetStage": {"type": "string", "minLength": 1},
		"actorId": {"type": "string", "minLength": 1},
		"actorRole": {"type": "string", "minLength": 1},
		"documents": {"type": "array", "items": {"$ref": "#/definitions/document"}},
		"medicalStatus": {"enum": ["Fit", "Unfit", "SlipSent", "NoSlip"]},
		"payment": {"$ref": "#/definitions/payment"},
		"expectedVersion": {"type": "integer", "minimum": 1}
	},
	"additionalProperties": false,
	"definitions": {"document": ` + documentDefinition + `, "payment": ` + paymentDefinition + `}
}`)

var documentsSchema = mustSchema(`{
	"type": "object",
	"properties": {
		"documents": {"type": "array", "items": {"$ref": "#/definitions/document"}},
		"returnAll": {"type": "boolean"}
	},
	"additionalProperties": false,
	"definitions": {"document": ` + documentDefinition + `}
}`)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return schema
}

// validateBody checks a raw JSON body against a schema and joins the
// violations into one message
func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid request body: %s", strings.Join(msgs, "; "))
}
