package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsage/docsage/pkg/chat"
	"github.com/docsage/docsage/pkg/genai"
)

// Rewriter turns a possibly context-dependent follow-up question into a
// standalone question, using the conversation state as ephemeral context.
type Rewriter struct {
	gen genai.Generator
}

// NewRewriter creates a Rewriter on the given generation capability.
func NewRewriter(gen genai.Generator) *Rewriter {
	return &Rewriter{gen: gen}
}

// Rewrite appends the raw question as a transient user turn, asks the model
// for a standalone restatement over the full snapshot, and removes the
// transient turn again whether or not the call succeeded. The rewrite is a
// side query, never a conversational turn, so it must not leak into durable
// history. A failed rewrite surfaces as ErrRewriteFailed; there is no
// fallback to the raw question.
func (r *Rewriter) Rewrite(ctx context.Context, question string, state *chat.State) (string, error) {
	state.Append(chat.Turn{Role: chat.RoleUser, Text: question})
	rewritten, genErr := r.gen.Generate(ctx, state.Snapshot(), rewriteInstruction)
	if _, err := state.RemoveLast(); err != nil {
		return "", fmt.Errorf("%w: undo transient turn: %w", ErrRewriteFailed, err)
	}

	if genErr != nil {
		return "", fmt.Errorf("%w: %w", ErrRewriteFailed, genErr)
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return "", fmt.Errorf("%w: model returned an empty rewrite", ErrRewriteFailed)
	}
	return rewritten, nil
}
