package providers

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/maitre/domain/provider"
)

// SettableVoice returns a configurable call result and records every request.
type SettableVoice struct {
	result   provider.VoiceResult
	err      error
	requests []provider.VoiceRequest
	mu       sync.Mutex
}

// NewSettableVoice creates a voice provider returning the given result.
func NewSettableVoice(result provider.VoiceResult) *SettableVoice {
	return &SettableVoice{result: result}
}

// SetResult changes the result returned by subsequent calls.
func (v *SettableVoice) SetResult(result provider.VoiceResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = result
	v.err = nil
}

// FailWith makes every subsequent call return err.
func (v *SettableVoice) FailWith(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
}

// CallToReserve records the request and returns the configured result.
func (v *SettableVoice) CallToReserve(_ context.Context, req provider.VoiceRequest) (provider.VoiceResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.requests = append(v.requests, req)
	if v.err != nil {
		return provider.VoiceResult{}, v.err
	}
	return v.result, nil
}

// Calls returns the number of voice calls placed.
func (v *SettableVoice) Calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.requests)
}

// Requests returns a copy of all recorded requests.
func (v *SettableVoice) Requests() []provider.VoiceRequest {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]provider.VoiceRequest, len(v.requests))
	copy(out, v.requests)
	return out
}

var _ provider.VoiceProvider = (*SettableVoice)(nil)
