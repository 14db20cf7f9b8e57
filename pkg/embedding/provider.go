package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// The context bounds the backend call; expiry surfaces as the request error.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
