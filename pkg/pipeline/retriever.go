package pipeline

import (
	"context"
	"fmt"

	"github.com/docsage/docsage/pkg/genai"
	"github.com/docsage/docsage/pkg/index"
)

// DefaultTopK is how many passages a query retrieves unless configured
// otherwise.
const DefaultTopK = 2

// Retriever embeds a standalone question and queries the similarity index
// for its nearest passages.
type Retriever struct {
	embedder genai.Embedder
	idx      index.Index
}

// NewRetriever creates a Retriever on the given embedding capability and
// similarity index.
func NewRetriever(embedder genai.Embedder, idx index.Index) *Retriever {
	return &Retriever{embedder: embedder, idx: idx}
}

// Retrieve returns the topK most relevant passages for the question. The
// index owns ranking and tie-breaking; its result order is preserved as
// relevance order. Zero matches is a legitimate empty result. No retry
// happens here; retry policy, if any, belongs to the orchestration layer.
func (r *Retriever) Retrieve(ctx context.Context, standaloneQuestion string, topK int) ([]index.Match, error) {
	if topK < 1 {
		topK = DefaultTopK
	}
	vector, err := r.embedder.Embed(ctx, standaloneQuestion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
	}
	matches, err := r.idx.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailed, err)
	}
	return matches, nil
}
