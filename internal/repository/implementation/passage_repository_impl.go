package implementation

import (
	"context"
	"fmt"

	"dr-vain-be/internal/entity"
	"dr-vain-be/internal/model"
	"dr-vain-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PassageRepositoryImpl struct {
	db *gorm.DB
}

func NewPassageRepository(db *gorm.DB) contract.PassageRepository {
	return &PassageRepositoryImpl{db: db}
}

func (r *PassageRepositoryImpl) toModel(p *entity.Passage, embedding []float32) *model.Passage {
	return &model.Passage{
		Id:        p.Id,
		Source:    p.Source,
		Content:   p.Content,
		Embedding: pgvector.NewVector(embedding),
		CreatedAt: p.CreatedAt,
	}
}

func (r *PassageRepositoryImpl) toEntity(m *model.Passage) *entity.Passage {
	return &entity.Passage{
		Id:        m.Id,
		Source:    m.Source,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func (r *PassageRepositoryImpl) Create(ctx context.Context, passage *entity.Passage, embedding []float32) error {
	if passage.Id == uuid.Nil {
		passage.Id = uuid.New()
	}
	m := r.toModel(passage, embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*passage = *r.toEntity(m)
	return nil
}

func (r *PassageRepositoryImpl) CreateBulk(ctx context.Context, passages []*entity.Passage, embeddings [][]float32) error {
	if len(passages) != len(embeddings) {
		return fmt.Errorf("passage/embedding count mismatch: %d vs %d", len(passages), len(embeddings))
	}
	models := make([]*model.Passage, len(passages))
	for i, p := range passages {
		if p.Id == uuid.Nil {
			p.Id = uuid.New()
		}
		models[i] = r.toModel(p, embeddings[i])
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*passages[i] = *r.toEntity(m)
	}
	return nil
}

func (r *PassageRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Passage{}).Count(&count).Error
	return count, err
}

func (r *PassageRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	return r.db.WithContext(ctx).Where("source = ?", source).Delete(&model.Passage{}).Error
}

// SearchSimilarWithScore returns passages with similarity scores, filtered by threshold.
// Cosine distance in pgvector is 1 - cosine_similarity, so we compute
// 1 - (embedding <=> query_vector) = cosine_similarity.
func (r *PassageRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredPassage, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		model.Passage
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("passages").
		Select("passages.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPassage, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPassage{
			Passage:    r.toEntity(&res.Passage),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
