package provider

import "context"

// BookingRequest asks the primary reservation channel to book a table.
type BookingRequest struct {
	CandidateID   string
	Venue         string
	Date          string
	Time          string
	PartySize     int
	CustomerName  string
	CustomerPhone string
}

// BookingResult is the provider-reported outcome of a booking attempt.
// Success=false is a business-level negative outcome, not an error.
type BookingResult struct {
	Success     bool
	ReferenceID string
	Message     string
}

// BookingProvider is the primary reservation channel.
type BookingProvider interface {
	Book(ctx context.Context, req BookingRequest) (BookingResult, error)
}
