package task

// BookingOutcome records how far the booking escalation got.
type BookingOutcome string

const (
	OutcomeNone              BookingOutcome = "none"
	OutcomePrimarySucceeded  BookingOutcome = "primary_succeeded"
	OutcomePrimaryFailed     BookingOutcome = "primary_failed"
	OutcomeFallbackSucceeded BookingOutcome = "fallback_succeeded"
	OutcomeFallbackFailed    BookingOutcome = "fallback_failed"

	// OutcomeCancelled exists for an explicit cancel-reservation intent.
	// No step sets it today; the cancellation path is a documented gap.
	OutcomeCancelled BookingOutcome = "cancelled"
)

// Succeeded returns true when a booking was secured on either channel.
func (o BookingOutcome) Succeeded() bool {
	return o == OutcomePrimarySucceeded || o == OutcomeFallbackSucceeded
}

// Channel identifies which fulfillment channel secured the booking.
type Channel string

const (
	ChannelPrimary Channel = "primary"
	ChannelVoice   Channel = "voice"
)

// Confirmation holds the booking details once secured. Present iff the
// booking outcome is primary_succeeded or fallback_succeeded.
type Confirmation struct {
	Venue     string  `json:"venue"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	PartySize int     `json:"party_size"`
	Contact   string  `json:"contact,omitempty"`
	Channel   Channel `json:"channel"`
	Reference string  `json:"reference,omitempty"`
}
