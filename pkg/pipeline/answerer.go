package pipeline

import (
	"context"
	"fmt"

	"github.com/docsage/docsage/pkg/chat"
	"github.com/docsage/docsage/pkg/genai"
)

// Answerer issues the final grounded generation call and owns the durable
// mutation of conversation state.
type Answerer struct {
	gen genai.Generator
}

// NewAnswerer creates an Answerer on the given generation capability.
func NewAnswerer(gen genai.Generator) *Answerer {
	return &Answerer{gen: gen}
}

// Answer appends the standalone question as a durable user turn, generates
// the grounded answer over the full snapshot, and appends the answer as a
// durable model turn. The turn pair commits all-or-nothing: a generation
// failure rolls back the just-appended user turn before surfacing
// ErrGenerationFailed, so a half-committed exchange is never observable to
// later pipeline runs.
func (a *Answerer) Answer(ctx context.Context, standaloneQuestion, contextBlock string, state *chat.State) (string, error) {
	state.Append(chat.Turn{Role: chat.RoleUser, Text: standaloneQuestion})

	answer, err := a.gen.Generate(ctx, state.Snapshot(), answerInstruction(contextBlock))
	if err != nil {
		if _, undoErr := state.RemoveLast(); undoErr != nil {
			return "", fmt.Errorf("%w: rollback user turn: %w", ErrGenerationFailed, undoErr)
		}
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	state.Append(chat.Turn{Role: chat.RoleModel, Text: answer})
	return answer, nil
}
