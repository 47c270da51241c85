// Package provider defines the collaborator contracts the engine consumes.
// Implementations live in the surrounding infrastructure; the core treats
// every provider as a stateless black box.
package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// InferRequest carries a conversation and a response-shape hint to the
// language-model collaborator.
type InferRequest struct {
	// Messages is the conversation so far, oldest first.
	Messages []task.Message

	// Instruction tells the model what to produce for this step.
	Instruction string

	// SchemaHint names the expected response shape (e.g. "intent",
	// "parameters", "question", "ranking").
	SchemaHint string

	// Now anchors relative time expressions ("tomorrow at 9pm"). Supplied
	// by the engine, never read from the ambient environment.
	Now time.Time
}

// Inference is the language-model collaborator: text in, structured data
// out. It may fail with a generic error; malformed output is detected by
// the caller when unmarshaling.
type Inference interface {
	Infer(ctx context.Context, req InferRequest) (json.RawMessage, error)
}
