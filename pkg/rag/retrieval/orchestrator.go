package retrieval

import (
	"context"
	"fmt"
	"time"

	"dr-vain-be/internal/pkg/logger"
	"dr-vain-be/internal/repository/contract"
	"dr-vain-be/pkg/embedding"

	"github.com/patrickmn/go-cache"
)

// Config encapsulates retrieval parameters
type Config struct {
	Threshold float64       // Minimum cosine similarity to accept a passage
	Timeout   time.Duration // Budget for one embed + search round-trip
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		Threshold: 0.0,
		Timeout:   30 * time.Second,
	}
}

// Orchestrator implements Retriever over an embedding provider and the
// pgvector passage store. Query embeddings are memoized so a retried turn
// (same text) skips the embedding round-trip.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	passageRepo       contract.PassageRepository
	queryCache        *cache.Cache
	config            Config
	logger            logger.ILogger
}

var _ Retriever = &Orchestrator{}

// NewOrchestrator creates a new retrieval orchestrator
func NewOrchestrator(
	embeddingProvider embedding.EmbeddingProvider,
	passageRepo contract.PassageRepository,
	config Config,
	log logger.ILogger,
) *Orchestrator {
	// Query embeddings expire after 10 minutes, purge every 15
	c := cache.New(10*time.Minute, 15*time.Minute)
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		passageRepo:       passageRepo,
		queryCache:        c,
		config:            config,
		logger:            log,
	}
}

// Retrieve embeds the query and runs a top-K vector search.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	vector, err := o.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := o.passageRepo.SearchSimilarWithScore(ctx, vector, topK, o.config.Threshold)
	if err != nil {
		o.logger.Error("retrieval", "Vector search failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	o.logger.Debug("retrieval", "Vector search completed", map[string]interface{}{
		"query_len": len(query),
		"results":   len(scored),
	})

	passages := make([]Passage, len(scored))
	for i, s := range scored {
		passages[i] = Passage{
			Id:      s.Passage.Id,
			Content: s.Passage.Content,
			Score:   s.Similarity,
		}
	}
	return passages, nil
}

func (o *Orchestrator) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if x, found := o.queryCache.Get(query); found {
		return x.([]float32), nil
	}

	res, err := o.embeddingProvider.Generate(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	o.queryCache.Set(query, res.Embedding.Values, cache.DefaultExpiration)
	return res.Embedding.Values, nil
}
