package contract

import (
	"context"

	"dr-vain-be/internal/entity"
)

// ScoredPassage pairs a corpus passage with its cosine similarity to a query.
type ScoredPassage struct {
	Passage    *entity.Passage
	Similarity float64
}

type PassageRepository interface {
	Create(ctx context.Context, passage *entity.Passage, embedding []float32) error
	CreateBulk(ctx context.Context, passages []*entity.Passage, embeddings [][]float32) error
	Count(ctx context.Context) (int64, error)
	DeleteBySource(ctx context.Context, source string) error
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredPassage, error)
}
