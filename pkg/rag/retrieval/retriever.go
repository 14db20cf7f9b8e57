package retrieval

import (
	"context"

	"github.com/google/uuid"
)

// Passage is one ranked context snippet returned from the vector index.
type Passage struct {
	Id      uuid.UUID
	Content string
	Score   float64
}

// Retriever is the capability the conversation engine depends on:
// text in, ranked context passages out. May return an empty slice;
// that is not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Passage, error)
}
