package triage

import "strings"

// Caller-visible messages.
const (
	MessageEmptyInput   = "Please enter symptoms to continue."
	MessageUnreachable  = "The system could not reach the AI service. Please ask a staff member to review."
	MessageInvalid      = "The system could not produce a valid classification. Please ask a staff member to review."
	MessageRedAlert     = "Your symptoms include potential emergency warning signs. Please seek immediate medical attention or alert staff now."
	ReasonFallback      = "Classification fallback triggered"
	ReasonHumanReview   = "Human review recommended"
	ReasonNotDiagnostic = "This is an administrative urgency alert, not a diagnosis"
)

// FallbackResult returns the conservative YELLOW advisory used whenever no
// validated classification is available.
func FallbackResult(message string) Result {
	return Result{
		Color:            Yellow,
		Message:          message,
		Reasons:          []string{ReasonFallback, ReasonHumanReview},
		RedFlagsDetected: []string{},
	}
}

func redAlert(keys []string) Result {
	return Result{
		Color:   Red,
		Message: MessageRedAlert,
		Reasons: []string{
			"Red-flag indicators detected: " + strings.Join(keys, ", "),
			ReasonNotDiagnostic,
		},
		RedFlagsDetected: keys,
	}
}
