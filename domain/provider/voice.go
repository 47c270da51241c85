package provider

import "context"

// VoiceRequest asks the voice-call channel to reserve by phone.
type VoiceRequest struct {
	Venue     string
	Phone     string
	Date      string
	Time      string
	PartySize int
}

// VoiceResult is the interpreted outcome of a reservation call. A booking
// counts only when the call succeeded and the venue confirmed.
type VoiceResult struct {
	Success    bool
	Confirmed  bool
	Transcript string
	Message    string
}

// VoiceProvider is the fallback fulfillment channel: an outbound call to
// the venue. It is the single allowed escalation hop.
type VoiceProvider interface {
	CallToReserve(ctx context.Context, req VoiceRequest) (VoiceResult, error)
}
