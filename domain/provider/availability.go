package provider

import "context"

// AvailabilityQuery identifies one candidate/slot combination to check.
type AvailabilityQuery struct {
	CandidateID string
	Name        string
	Website     string
	Rating      float64
	ReviewCount int

	Date      string
	Time      string
	PartySize int
}

// Availability is the per-candidate answer from the availability provider.
type Availability struct {
	// HasChannel reports whether the candidate is bookable on the primary
	// reservation channel at all.
	HasChannel bool

	// Available reports whether the requested slot is free. Only
	// meaningful when HasChannel is true.
	Available bool

	// AlternateSlots lists nearby free times when the requested slot is taken.
	AlternateSlots []string
}

// AvailabilityProvider answers slot availability for a single candidate.
// Callers query candidates independently; a failure for one candidate must
// not abort the others.
type AvailabilityProvider interface {
	CheckAvailability(ctx context.Context, q AvailabilityQuery) (Availability, error)
}
