package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"dr-vain-be/internal/entity"
	"dr-vain-be/internal/repository/contract"
	"dr-vain-be/pkg/embedding"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

// slowEmbedder blocks for delay unless the context expires first.
type slowEmbedder struct {
	delay time.Duration
	calls int
}

func (s *slowEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	s.calls++
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

type memoryPassageRepo struct {
	scored []*contract.ScoredPassage
}

func (r *memoryPassageRepo) Create(ctx context.Context, passage *entity.Passage, embedding []float32) error {
	return nil
}

func (r *memoryPassageRepo) CreateBulk(ctx context.Context, passages []*entity.Passage, embeddings [][]float32) error {
	return nil
}

func (r *memoryPassageRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (r *memoryPassageRepo) DeleteBySource(ctx context.Context, source string) error { return nil }

func (r *memoryPassageRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredPassage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.scored, nil
}

func TestRetrieveTimeoutBoundsEmbedding(t *testing.T) {
	embedder := &slowEmbedder{delay: 2 * time.Second}
	orchestrator := NewOrchestrator(embedder, &memoryPassageRepo{}, Config{Timeout: 100 * time.Millisecond}, quietLogger{})

	start := time.Now()
	_, err := orchestrator.Retrieve(context.Background(), "anything", 3)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded in chain", err)
	}
	if elapsed > time.Second {
		t.Errorf("Retrieve took %s; the configured 100ms timeout must bound the embedding call", elapsed)
	}
}

func TestRetrieveWithinTimeout(t *testing.T) {
	embedder := &slowEmbedder{delay: 0}
	repo := &memoryPassageRepo{
		scored: []*contract.ScoredPassage{
			{Passage: &entity.Passage{Content: "some context"}, Similarity: 0.9},
		},
	}
	orchestrator := NewOrchestrator(embedder, repo, Config{Timeout: time.Second}, quietLogger{})

	passages, err := orchestrator.Retrieve(context.Background(), "a question", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) != 1 || passages[0].Content != "some context" {
		t.Errorf("passages = %+v", passages)
	}
	if passages[0].Score != 0.9 {
		t.Errorf("Score = %v, want 0.9", passages[0].Score)
	}
}

func TestRetrieveMemoizesQueryEmbedding(t *testing.T) {
	embedder := &slowEmbedder{delay: 0}
	orchestrator := NewOrchestrator(embedder, &memoryPassageRepo{}, DefaultConfig(), quietLogger{})

	for i := 0; i < 3; i++ {
		if _, err := orchestrator.Retrieve(context.Background(), "same question", 3); err != nil {
			t.Fatalf("Retrieve %d: %v", i, err)
		}
	}
	if embedder.calls != 1 {
		t.Errorf("embedding calls = %d, want 1 (memoized)", embedder.calls)
	}
}
