// Package pipeline implements the conversational query pipeline: rewrite a
// follow-up question into a standalone one, retrieve relevant passages,
// assemble a bounded context, and generate a grounded answer, committing
// the exchange to conversation state only when the whole run succeeds.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docsage/docsage/pkg/chat"
	"github.com/docsage/docsage/pkg/genai"
	"github.com/docsage/docsage/pkg/index"
)

// Stage names the sequential states of one pipeline run.
type Stage int

const (
	StageIdle Stage = iota
	StageRewriting
	StageRetrieving
	StageAssembling
	StageGenerating
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageRewriting:
		return "rewriting"
	case StageRetrieving:
		return "retrieving"
	case StageAssembling:
		return "assembling"
	case StageGenerating:
		return "generating"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// StageError reports which stage a pipeline run failed in. It wraps the
// stage's error, so errors.Is still matches the stage sentinels.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed while %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Pipeline sequences the four stages for each incoming question. Transitions
// are strictly sequential; a failure in any stage aborts the run and leaves
// the conversation state exactly as it was before the request. A Pipeline
// is stateless across requests and safe for concurrent use as long as each
// concurrent call operates on a different State.
type Pipeline struct {
	rewriter  *Rewriter
	retriever *Retriever
	answerer  *Answerer
	topK      int
	logger    *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTopK overrides how many passages each query retrieves.
func WithTopK(topK int) Option {
	return func(p *Pipeline) {
		if topK >= 1 {
			p.topK = topK
		}
	}
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New assembles a Pipeline from the external capabilities it consumes.
func New(gen genai.Generator, embedder genai.Embedder, idx index.Index, opts ...Option) *Pipeline {
	p := &Pipeline{
		rewriter:  NewRewriter(gen),
		retriever: NewRetriever(embedder, idx),
		answerer:  NewAnswerer(gen),
		topK:      DefaultTopK,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Answer runs the full pipeline for one question against one session's
// state. On success the state has grown by exactly one user turn and one
// model turn; on failure it is unchanged and the returned error is a
// *StageError naming the failed stage. Callers must serialize Answer calls
// that share a State.
func (p *Pipeline) Answer(ctx context.Context, question string, state *chat.State) (string, error) {
	start := time.Now()

	stage := StageRewriting
	standalone, err := p.rewriter.Rewrite(ctx, question, state)
	if err != nil {
		return "", p.fail(stage, err)
	}
	p.logger.Debug("question rewritten",
		zap.String("question", question),
		zap.String("standalone", standalone),
	)

	stage = StageRetrieving
	matches, err := p.retriever.Retrieve(ctx, standalone, p.topK)
	if err != nil {
		return "", p.fail(stage, err)
	}
	p.logger.Debug("passages retrieved", zap.Int("count", len(matches)))

	stage = StageAssembling
	contextBlock := AssembleContext(matches)

	stage = StageGenerating
	answer, err := p.answerer.Answer(ctx, standalone, contextBlock, state)
	if err != nil {
		return "", p.fail(stage, err)
	}

	p.logger.Info("question answered",
		zap.Int("passages", len(matches)),
		zap.Int("history_turns", state.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return answer, nil
}

func (p *Pipeline) fail(stage Stage, err error) error {
	p.logger.Error("pipeline stage failed",
		zap.Stringer("stage", stage),
		zap.Error(err),
	)
	return &StageError{Stage: stage, Err: err}
}
