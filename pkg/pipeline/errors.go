package pipeline

import "errors"

// Stage-level failures. Each wraps the underlying cause; no stage recovers
// another stage's failure, so exactly one of these surfaces per failed
// request.
var (
	ErrRewriteFailed    = errors.New("query rewrite failed")
	ErrRetrievalFailed  = errors.New("passage retrieval failed")
	ErrGenerationFailed = errors.New("answer generation failed")
)
