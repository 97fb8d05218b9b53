// Package genai defines the external model capabilities the query pipeline
// consumes: grounded text generation and dense text embedding. Both are
// opaque network services behind narrow interfaces.
package genai

import (
	"context"
	"fmt"

	"github.com/docsage/docsage/pkg/chat"
)

// Generator produces text conditioned on a conversation history and a
// system instruction.
type Generator interface {
	Generate(ctx context.Context, history []chat.Turn, systemInstruction string) (string, error)
}

// Embedder converts free text into a fixed-length dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// UpstreamError reports a failed call to an external model or index
// service. Status is the HTTP status code when one was received, zero
// otherwise.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
