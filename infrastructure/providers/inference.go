// Package providers contains deterministic provider implementations used
// for testing and local development. Production adapters satisfy the same
// domain interfaces.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/maitre/domain/provider"
)

// MockInference returns a predefined sequence of raw JSON responses.
type MockInference struct {
	responses []json.RawMessage
	index     int
	mu        sync.Mutex
}

// NewMockInference creates a mock inference provider with the given responses.
func NewMockInference(responses ...json.RawMessage) *MockInference {
	return &MockInference{
		responses: responses,
		index:     0,
	}
}

// Infer returns the next response in the sequence.
func (m *MockInference) Infer(_ context.Context, _ provider.InferRequest) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index >= len(m.responses) {
		return nil, fmt.Errorf("%w: inference script exhausted at call %d", provider.ErrMalformedOutput, m.index)
	}

	response := m.responses[m.index]
	m.index++
	return response, nil
}

// Reset resets the provider to the beginning of its sequence.
func (m *MockInference) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = 0
}

// Remaining returns the number of unused responses.
func (m *MockInference) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses) - m.index
}

// InferenceStep defines an expected instruction and the response to return.
type InferenceStep struct {
	// ExpectInstruction asserts the request instruction contains this
	// substring before returning the response.
	ExpectInstruction string

	// Response is the raw JSON to return.
	Response json.RawMessage

	// Err is returned instead of the response when set.
	Err error
}

// ScriptedInference executes a predefined sequence for deterministic
// testing. It validates each request against the expected instruction.
type ScriptedInference struct {
	steps []InferenceStep
	index int
	mu    sync.Mutex
}

// NewScriptedInference creates a scripted inference provider.
func NewScriptedInference(steps ...InferenceStep) *ScriptedInference {
	return &ScriptedInference{
		steps: steps,
		index: 0,
	}
}

// Infer returns the next scripted response if the request matches.
func (s *ScriptedInference) Infer(_ context.Context, req provider.InferRequest) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.steps) {
		return nil, fmt.Errorf("%w: inference script exhausted at call %d", provider.ErrMalformedOutput, s.index)
	}

	step := s.steps[s.index]

	if step.ExpectInstruction != "" && !strings.Contains(req.Instruction, step.ExpectInstruction) {
		return nil, &UnexpectedRequestError{
			Expected:  step.ExpectInstruction,
			Actual:    req.Instruction,
			StepIndex: s.index,
		}
	}

	s.index++

	if step.Err != nil {
		return nil, step.Err
	}
	return step.Response, nil
}

// Reset resets the provider to the beginning of its script.
func (s *ScriptedInference) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}

// CurrentStep returns the current step index.
func (s *ScriptedInference) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// IsComplete returns true if all steps have been consumed.
func (s *ScriptedInference) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index >= len(s.steps)
}

// UnexpectedRequestError indicates the provider received an unexpected request.
type UnexpectedRequestError struct {
	Expected  string
	Actual    string
	StepIndex int
}

func (e *UnexpectedRequestError) Error() string {
	return fmt.Sprintf("unexpected request at step %d: expected instruction containing %q, got %q",
		e.StepIndex, e.Expected, e.Actual)
}

// Ensure implementations satisfy the interface.
var (
	_ provider.Inference = (*MockInference)(nil)
	_ provider.Inference = (*ScriptedInference)(nil)
)
