package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/pkg/index"
)

// countingEmbedder returns a vector derived from the text length and tracks
// how many embeds run concurrently.
type countingEmbedder struct {
	mu     sync.Mutex
	active int
	peak   int
	calls  int
	failOn string
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.active++
	if e.active > e.peak {
		e.peak = e.active
	}
	e.calls++
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.active--
		e.mu.Unlock()
	}()

	if e.failOn != "" && strings.Contains(text, e.failOn) {
		return nil, errors.New("embed failure")
	}
	return []float32{float32(len(text))}, nil
}

type collectingIndex struct {
	mu      sync.Mutex
	items   []index.Item
	upserts int
	err     error
}

func (i *collectingIndex) Query(_ context.Context, _ []float32, _ int) ([]index.Match, error) {
	return nil, nil
}

func (i *collectingIndex) Upsert(_ context.Context, items []index.Item) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.err != nil {
		return i.err
	}
	i.items = append(i.items, items...)
	i.upserts++
	return nil
}

func sourceText(paragraphs int) string {
	var b strings.Builder
	for i := range paragraphs {
		fmt.Fprintf(&b, "Paragraph %03d about data structures and their operations.\n\n", i)
	}
	return b.String()
}

func TestIngestStoresAllChunksInOrder(t *testing.T) {
	emb := &countingEmbedder{}
	idx := &collectingIndex{}
	ing := New(emb, idx, WithSplitter(NewSplitter(120, 0)))

	n, err := ing.Ingest(context.Background(), "dsa.txt", sourceText(20))
	require.NoError(t, err)
	require.Greater(t, n, 1)
	require.Len(t, idx.items, n)

	for i, item := range idx.items {
		assert.Equal(t, fmt.Sprintf("dsa.txt:%d", i), item.ID)
		assert.NotEmpty(t, item.Text)
		assert.NotEmpty(t, item.Values)
	}
	// Document order survives the concurrent embedding phase.
	assert.Contains(t, idx.items[0].Text, "Paragraph 000")
}

func TestIngestRespectsConcurrencyCap(t *testing.T) {
	emb := &countingEmbedder{}
	idx := &collectingIndex{}
	ing := New(emb, idx, WithSplitter(NewSplitter(60, 0)), WithConcurrency(2))

	_, err := ing.Ingest(context.Background(), "dsa.txt", sourceText(30))
	require.NoError(t, err)
	assert.LessOrEqual(t, emb.peak, 2)
}

func TestIngestEmbedFailureAborts(t *testing.T) {
	emb := &countingEmbedder{failOn: "Paragraph 005"}
	idx := &collectingIndex{}
	ing := New(emb, idx, WithSplitter(NewSplitter(60, 0)))

	_, err := ing.Ingest(context.Background(), "dsa.txt", sourceText(10))
	require.Error(t, err)
	assert.Empty(t, idx.items)
}

func TestIngestUpsertFailureSurfaces(t *testing.T) {
	emb := &countingEmbedder{}
	idx := &collectingIndex{err: errors.New("index unavailable")}
	ing := New(emb, idx)

	_, err := ing.Ingest(context.Background(), "dsa.txt", sourceText(3))
	assert.Error(t, err)
}

func TestIngestEmptySourceIsAnError(t *testing.T) {
	ing := New(&countingEmbedder{}, &collectingIndex{})
	_, err := ing.Ingest(context.Background(), "empty.txt", "   ")
	assert.Error(t, err)
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("A queue is FIFO."), 0o644))

	idx := &collectingIndex{}
	ing := New(&countingEmbedder{}, idx)

	n, err := ing.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, idx.items, 1)
	assert.Equal(t, "notes.md:0", idx.items[0].ID)
}

func TestIngestFileMissing(t *testing.T) {
	ing := New(&countingEmbedder{}, &collectingIndex{})
	_, err := ing.IngestFile(context.Background(), "/does/not/exist.txt")
	assert.Error(t, err)
}
