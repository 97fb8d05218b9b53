// Package ingest converts a source document into passage vectors in the
// similarity index. It is a one-shot batch job with no runtime state; the
// query pipeline interacts with it only through the index contents.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/docsage/docsage/pkg/genai"
	"github.com/docsage/docsage/pkg/index"
)

const (
	defaultConcurrency = 5
	defaultBatchSize   = 100
)

// Ingestor chunks, embeds, and upserts source documents.
type Ingestor struct {
	embedder    genai.Embedder
	idx         index.Index
	splitter    *Splitter
	concurrency int
	batchSize   int
	logger      *zap.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithSplitter overrides the default 1000/200 splitter.
func WithSplitter(s *Splitter) Option {
	return func(ing *Ingestor) { ing.splitter = s }
}

// WithConcurrency caps how many embedding calls run at once.
func WithConcurrency(n int) Option {
	return func(ing *Ingestor) {
		if n >= 1 {
			ing.concurrency = n
		}
	}
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(ing *Ingestor) { ing.logger = logger }
}

// New creates an Ingestor on the given embedding capability and index.
func New(embedder genai.Embedder, idx index.Index, opts ...Option) *Ingestor {
	ing := &Ingestor{
		embedder:    embedder,
		idx:         idx,
		splitter:    NewSplitter(0, -1),
		concurrency: defaultConcurrency,
		batchSize:   defaultBatchSize,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestFile reads a plain-text or markdown source document and indexes it.
// The file's base name becomes the passage ID prefix.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read source document: %w", err)
	}
	return ing.Ingest(ctx, filepath.Base(path), string(data))
}

// Ingest splits text into chunks, embeds them with the configured
// concurrency cap, and upserts the resulting passage vectors in batches.
// Returns the number of passages stored.
func (ing *Ingestor) Ingest(ctx context.Context, sourceID, text string) (int, error) {
	chunks := ing.splitter.Split(text)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("source %s produced no chunks", sourceID)
	}
	ing.logger.Info("document chunked",
		zap.String("source", sourceID),
		zap.Int("chunks", len(chunks)),
	)

	items := make([]index.Item, len(chunks))
	p := pool.New().
		WithMaxGoroutines(ing.concurrency).
		WithContext(ctx).
		WithCancelOnError()
	for i, chunk := range chunks {
		p.Go(func(ctx context.Context) error {
			vector, err := ing.embedder.Embed(ctx, chunk)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", i, err)
			}
			items[i] = index.Item{
				ID:     fmt.Sprintf("%s:%d", sourceID, i),
				Values: vector,
				Text:   chunk,
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return 0, err
	}

	for start := 0; start < len(items); start += ing.batchSize {
		end := min(start+ing.batchSize, len(items))
		if err := ing.idx.Upsert(ctx, items[start:end]); err != nil {
			return 0, fmt.Errorf("upsert passages %d-%d: %w", start, end-1, err)
		}
	}

	ing.logger.Info("document indexed",
		zap.String("source", sourceID),
		zap.Int("passages", len(items)),
	)
	return len(items), nil
}
