package providers

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/maitre/domain/provider"
)

// SettableBooking returns a configurable result and records every request.
type SettableBooking struct {
	result   provider.BookingResult
	err      error
	requests []provider.BookingRequest
	mu       sync.Mutex
}

// NewSettableBooking creates a booking provider returning the given result.
func NewSettableBooking(result provider.BookingResult) *SettableBooking {
	return &SettableBooking{result: result}
}

// SetResult changes the result returned by subsequent calls.
func (b *SettableBooking) SetResult(result provider.BookingResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.result = result
	b.err = nil
}

// FailWith makes every subsequent call return err.
func (b *SettableBooking) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// Book records the request and returns the configured result.
func (b *SettableBooking) Book(_ context.Context, req provider.BookingRequest) (provider.BookingResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, req)
	if b.err != nil {
		return provider.BookingResult{}, b.err
	}
	return b.result, nil
}

// Calls returns the number of booking attempts.
func (b *SettableBooking) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// Requests returns a copy of all recorded requests.
func (b *SettableBooking) Requests() []provider.BookingRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]provider.BookingRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

var _ provider.BookingProvider = (*SettableBooking)(nil)
