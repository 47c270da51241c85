package application

import (
	"testing"

	"github.com/felixgeelhaar/maitre/domain/task"
)

func TestRouteAfterCompleteness(t *testing.T) {
	complete := task.ReservationParams{
		Query: strPtr("pizza"), Location: strPtr("downtown"),
		Date: strPtr("2026-09-01"), Time: strPtr("19:00"), PartySize: intPtr(2),
	}

	tests := []struct {
		name     string
		params   task.ReservationParams
		failure  string
		expected CompletenessRoute
	}{
		{"complete params route to search", complete, "", RouteSearch},
		{"missing fields route to ask", task.ReservationParams{Query: strPtr("pizza")}, "", RouteAsk},
		{"failure takes precedence over completeness", complete, "upstream broke", RouteError},
		{"failure takes precedence over missing fields", task.ReservationParams{}, "upstream broke", RouteError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := task.New("t-1", "hello")
			tk.Params = tt.params
			if tt.failure != "" {
				tk.Fail(tt.failure)
			}

			if got := RouteAfterCompleteness(tk); got != tt.expected {
				t.Errorf("RouteAfterCompleteness() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRouteAfterBooking(t *testing.T) {
	tests := []struct {
		outcome  task.BookingOutcome
		expected BookingRoute
	}{
		{task.OutcomePrimarySucceeded, RouteFinalize},
		{task.OutcomePrimaryFailed, RouteFallback},
		{task.OutcomeNone, RouteFailed},
		{task.OutcomeFallbackSucceeded, RouteFailed},
		{task.OutcomeFallbackFailed, RouteFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			tk := task.New("t-1", "hello")
			tk.BookingOutcome = tt.outcome

			if got := RouteAfterBooking(tk); got != tt.expected {
				t.Errorf("RouteAfterBooking(%q) = %q, want %q", tt.outcome, got, tt.expected)
			}
		})
	}
}

func TestRouteAfterVoice(t *testing.T) {
	tests := []struct {
		outcome  task.BookingOutcome
		expected VoiceRoute
	}{
		{task.OutcomeFallbackSucceeded, RouteVoiceFinalize},
		{task.OutcomeFallbackFailed, RouteVoiceFailed},
		{task.OutcomePrimaryFailed, RouteVoiceFailed},
		{task.OutcomeNone, RouteVoiceFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			tk := task.New("t-1", "hello")
			tk.BookingOutcome = tt.outcome

			if got := RouteAfterVoice(tk); got != tt.expected {
				t.Errorf("RouteAfterVoice(%q) = %q, want %q", tt.outcome, got, tt.expected)
			}
		})
	}
}
