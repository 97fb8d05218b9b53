// Package index defines the similarity-index contract shared by the query
// pipeline and the ingestion job. The index owns similarity ranking and
// tie-breaking; callers treat the returned order as relevance order.
package index

import "context"

// Match is a retrieved passage paired with its similarity score.
type Match struct {
	Text  string
	Score float32
}

// Item is a passage vector to be stored, carrying the passage text as
// metadata so queries can return it alongside the score.
type Item struct {
	ID     string
	Values []float32
	Text   string
}

// Index is the similarity index consumed by retrieval and fed by ingestion.
// Query returns at most topK matches in relevance order; zero matches is a
// legitimate empty result, not an error.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Upsert(ctx context.Context, items []Item) error
}
