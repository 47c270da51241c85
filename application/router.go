package application

import "github.com/felixgeelhaar/maitre/domain/task"

// CompletenessRoute is the successor chosen after check_completeness.
type CompletenessRoute string

const (
	RouteAsk    CompletenessRoute = "ask_user"
	RouteSearch CompletenessRoute = "search"
	RouteError  CompletenessRoute = "error"
)

// RouteAfterCompleteness decides the successor of check_completeness.
// A recorded failure takes precedence over any other signal; otherwise
// parameter completeness selects ask_user vs search.
func RouteAfterCompleteness(t *task.Task) CompletenessRoute {
	if t.Failure != "" {
		return RouteError
	}
	if !t.Params.Complete() {
		return RouteAsk
	}
	return RouteSearch
}

// BookingRoute is the successor chosen after book_restaurant.
type BookingRoute string

const (
	RouteFinalize BookingRoute = "finalize"
	RouteFallback BookingRoute = "fallback_voice"
	RouteFailed   BookingRoute = "error"
)

// RouteAfterBooking decides the successor of book_restaurant, keyed
// purely off the booking outcome. Anything other than the two expected
// outcomes falls through to the error path.
func RouteAfterBooking(t *task.Task) BookingRoute {
	switch t.BookingOutcome {
	case task.OutcomePrimarySucceeded:
		return RouteFinalize
	case task.OutcomePrimaryFailed:
		return RouteFallback
	default:
		return RouteFailed
	}
}

// VoiceRoute is the successor chosen after fallback_voice.
type VoiceRoute string

const (
	RouteVoiceFinalize VoiceRoute = "finalize"
	RouteVoiceFailed   VoiceRoute = "error"
)

// RouteAfterVoice decides the successor of fallback_voice. There is no
// second fallback: anything short of a confirmed voice booking ends on
// the error path.
func RouteAfterVoice(t *task.Task) VoiceRoute {
	if t.BookingOutcome == task.OutcomeFallbackSucceeded {
		return RouteVoiceFinalize
	}
	return RouteVoiceFailed
}
