package triage

import (
	"net/http"

	"github.com/JaimeStill/mediflow/pkg/openapi"
)

var maxSymptomLength = MaxSymptomLength

// Schemas returns the OpenAPI component schemas for triage payloads.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"TriageRequest": {
			Type:     "object",
			Required: []string{"symptom_text"},
			Properties: map[string]*openapi.Schema{
				"symptom_text": {
					Type:        "string",
					Description: "Free-text symptom description. Trimmed and truncated to the first 1200 characters.",
					MaxLength:   &maxSymptomLength,
					Example:     "sore throat and fever since yesterday",
				},
				"patient_name": {
					Type:        "string",
					Description: "Display only. Never sent to the model and never logged.",
				},
			},
		},
		"TriageResult": {
			Type:     "object",
			Required: []string{"color", "message", "reasons", "red_flags_detected"},
			Properties: map[string]*openapi.Schema{
				"color": {
					Type: "string",
					Enum: []any{string(Red), string(Yellow), string(Green)},
				},
				"message":            {Type: "string"},
				"reasons":            {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"red_flags_detected": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"RuleList": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"rules": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
	}
}

var classifyOp = &openapi.Operation{
	OperationID: "classifySymptoms",
	Summary:     "Classify symptoms",
	Description: "Assigns an administrative urgency tier. Red-flag matches are RED without a model call. Failures return a YELLOW fallback result recommending human review.",
	RequestBody: openapi.RequestBodyJSON("TriageRequest", true),
	Responses: map[int]*openapi.Response{
		http.StatusOK:                 openapi.ResponseJSON("Classification result", "TriageResult"),
		http.StatusBadRequest:         openapi.ResponseJSON("Empty or undecodable request; fallback result", "TriageResult"),
		http.StatusBadGateway:         openapi.ResponseJSON("Model backend or output failure; fallback result", "TriageResult"),
		http.StatusServiceUnavailable: openapi.ResponseJSON("Model backend not configured; fallback result", "TriageResult"),
	},
}

var rulesOp = &openapi.Operation{
	OperationID: "listRedFlagRules",
	Summary:     "List red-flag rules",
	Responses: map[int]*openapi.Response{
		http.StatusOK: openapi.ResponseJSON("Red-flag rule keys", "RuleList"),
	},
}
