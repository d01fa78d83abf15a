package triage

import "fmt"

const downgradeReason = "No explicit red-flag indicators detected; downgraded to YELLOW for safety consistency."

// Validate converts a decoded model object into a Result.
//
// The object must carry a known color and a string message (read from
// "message", or from the legacy "mensaje" key when "message" is absent).
// Reasons and red flags default to empty when they are not string arrays.
// A RED result without red flags is always downgraded to YELLOW.
func Validate(parsed map[string]any) (Result, error) {
	if parsed == nil {
		return Result{}, fmt.Errorf("%w: no object", ErrValidation)
	}

	raw, ok := parsed["color"].(string)
	color := Color(raw)
	if !ok || !color.Valid() {
		return Result{}, fmt.Errorf("%w: invalid color %v", ErrValidation, parsed["color"])
	}

	msg, present := parsed["message"]
	if !present {
		msg = parsed["mensaje"]
	}
	message, ok := msg.(string)
	if !ok {
		return Result{}, fmt.Errorf("%w: message is not a string", ErrValidation)
	}

	result := Result{
		Color:            color,
		Message:          message,
		Reasons:          stringSlice(parsed["reasons"]),
		RedFlagsDetected: stringSlice(parsed["red_flags_detected"]),
	}

	if result.Color == Red && len(result.RedFlagsDetected) == 0 {
		result.Color = Yellow
		result.Reasons = append(result.Reasons, downgradeReason)
	}

	return result, nil
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return []string{}
		}
		out = append(out, s)
	}
	return out
}
