// Package triage sequences the red-flag matcher, the model gateway, the
// response parser, and the result validator into a single classification
// pipeline. Every classification produces a Result, including failures,
// which fall back to a conservative YELLOW advisory.
package triage

import (
	"strings"
	"unicode/utf8"
)

// Color is the administrative urgency tier assigned to a symptom description.
type Color string

const (
	Red    Color = "RED"
	Yellow Color = "YELLOW"
	Green  Color = "GREEN"
)

// Valid reports whether c is one of the three known tiers.
func (c Color) Valid() bool {
	switch c {
	case Red, Yellow, Green:
		return true
	}
	return false
}

// MaxSymptomLength is the number of characters kept from a symptom
// description. Longer input is truncated, not rejected.
const MaxSymptomLength = 1200

// Request is a single inbound classification request.
// PatientName is accepted for display purposes only; it is never sent to the
// model and never logged.
type Request struct {
	SymptomText string `json:"symptom_text" yaml:"symptom_text"`
	PatientName string `json:"patient_name,omitempty" yaml:"patient_name,omitempty"`
}

// Symptoms returns the trimmed symptom text capped at MaxSymptomLength runes.
func (r Request) Symptoms() string {
	text := strings.TrimSpace(r.SymptomText)
	if utf8.RuneCountInString(text) <= MaxSymptomLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxSymptomLength])
}

// Result is the classification record returned to callers.
type Result struct {
	Color            Color    `json:"color" yaml:"color"`
	Message          string   `json:"message" yaml:"message"`
	Reasons          []string `json:"reasons" yaml:"reasons"`
	RedFlagsDetected []string `json:"red_flags_detected" yaml:"red_flags_detected"`
}

// Stage identifies a step of the classification pipeline in log records.
type Stage string

const (
	StageStart           Stage = "start"
	StageRedShortCircuit Stage = "red_short_circuit"
	StageModelCall       Stage = "model_call"
	StageParse           Stage = "parse"
	StageValidate        Stage = "validate"
	StageDone            Stage = "done"
	StageFallback        Stage = "fallback"
)
