package gateway

import "fmt"

// Kind tags the outcome of a gateway call.
type Kind string

const (
	// KindTranslated means the provider returned a non-empty translation.
	KindTranslated Kind = "translated"
	// KindEmptyInput means the input was blank and no provider call was made.
	KindEmptyInput Kind = "empty_input"
	// KindEmptyResult means the provider answered with an empty string.
	KindEmptyResult Kind = "empty_result"
	// KindUnavailable means the provider call failed. Text holds the offline
	// phrase when the fallback table had one.
	KindUnavailable Kind = "unavailable"
)

// User-visible diagnostics.
const (
	MessageEmptyInput  = "Please enter some text to translate."
	MessageEmptyResult = "Translation failed. Please try again."
	offlineFormat      = "✨ %s (offline)"
	unavailableFormat  = "⚠️ Translation service unavailable. Showing text: %s"
)

// Result is the tagged outcome of Gateway.Translate.
type Result struct {
	Kind Kind
	// Text is the provider translation, or the fallback phrase when Offline is set.
	Text string
	// Input is the text as submitted.
	Input string
	// Offline is set when Text came from the fallback table.
	Offline bool
	// Err is the provider error for KindUnavailable. It is never returned to callers
	// as a Go error; it is kept for logging and API detail.
	Err error
}

// OK reports whether the result should be rendered as a success. Offline
// fallback phrases count as success.
func (r Result) OK() bool {
	return r.Kind == KindTranslated || (r.Kind == KindUnavailable && r.Offline)
}

// Message renders the exact string shown to the user.
func (r Result) Message() string {
	switch r.Kind {
	case KindTranslated:
		return r.Text
	case KindEmptyInput:
		return MessageEmptyInput
	case KindEmptyResult:
		return MessageEmptyResult
	case KindUnavailable:
		if r.Offline {
			return fmt.Sprintf(offlineFormat, r.Text)
		}
		return fmt.Sprintf(unavailableFormat, r.Input)
	default:
		return ""
	}
}

// Detail describes the underlying provider error, if any.
func (r Result) Detail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// State is the terminal state of one submitted request.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateRejected         State = "rejected"
	StateDispatched       State = "dispatched"
	StateSucceeded        State = "succeeded"
	StateDegradedFallback State = "degraded_fallback"
	StateFailed           State = "failed"
)

// State maps the result to its terminal request state.
func (r Result) State() State {
	switch {
	case r.Kind == KindEmptyInput:
		return StateRejected
	case r.Kind == KindTranslated:
		return StateSucceeded
	case r.Kind == KindUnavailable && r.Offline:
		return StateDegradedFallback
	default:
		return StateFailed
	}
}
