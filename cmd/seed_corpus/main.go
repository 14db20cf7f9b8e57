package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"dr-vain-be/internal/config"
	"dr-vain-be/internal/entity"
	"dr-vain-be/internal/model"
	"dr-vain-be/internal/repository/implementation"
	"dr-vain-be/pkg/database"
	"dr-vain-be/pkg/embedding"
	"dr-vain-be/pkg/embedding/jina"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// seedPassage is the on-disk shape for -file input.
type seedPassage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

const defaultSource = "builtin"

// defaultCorpus is a small starter knowledge base so the retriever has
// something to ground on before a real corpus is loaded.
var defaultCorpus = []seedPassage{
	{defaultSource, "Narcissistic personality traits include a grandiose sense of self-importance, a preoccupation with fantasies of unlimited success and brilliance, and a belief of being special and unique."},
	{defaultSource, "A hallmark of narcissistic communication is conversational one-upmanship: redirecting any topic the other person raises back toward the speaker's own achievements and experiences."},
	{defaultSource, "Individuals with narcissistic traits often require excessive admiration and react to perceived criticism with contempt, dismissal, or a renewed recitation of their own accomplishments."},
	{defaultSource, "Empathy deficits present as an unwillingness to recognize or identify with the feelings and needs of others, even while demanding constant validation for oneself."},
	{defaultSource, "In a therapeutic setting, clients frequently present with anxiety, low self-esteem, difficulty setting boundaries, and rumination over past relationships."},
	{defaultSource, "Common therapeutic techniques include active listening, open-ended questioning, validation of the client's emotional experience, and collaborative goal setting."},
	{defaultSource, "Cognitive distortions such as catastrophizing, all-or-nothing thinking, and personalization are frequent targets of cognitive behavioral therapy."},
	{defaultSource, "Clients describing burnout typically report emotional exhaustion, reduced sense of accomplishment, and detachment from work they once found meaningful."},
	{defaultSource, "Grief does not follow a fixed sequence of stages; clients commonly oscillate between sadness, anger, numbness, and moments of acceptance."},
	{defaultSource, "Imposter phenomenon involves persistent self-doubt and fear of being exposed as a fraud despite objective evidence of competence."},
	{defaultSource, "Attachment patterns formed early in life shape adult relationships; anxious attachment presents as fear of abandonment, avoidant attachment as discomfort with closeness."},
	{defaultSource, "Boundary setting is the practice of clearly communicating personal limits; difficulty saying no is often rooted in fear of conflict or rejection."},
}

func main() {
	filePath := flag.String("file", "", "optional JSON file with [{\"source\":..., \"content\":...}] entries")
	reset := flag.String("reset", "", "delete existing passages with this source before seeding")
	flag.Parse()

	color.Cyan("🌱 Dr. Vain Corpus Seeder\n")

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Unable to connect to GORM DB: %v", err)
		os.Exit(1)
	}

	// pgvector must exist before the passages table can be migrated
	if err := gormDB.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		color.Red("Failed to enable pgvector extension: %v", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(&model.Passage{}); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}
	color.Green("Schema ready")

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		provider = jina.NewJinaProvider(cfg.Keys.Jina)
		color.Yellow("Embedding with: JINA AI")
	} else {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		color.Yellow("Embedding with: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	repo := implementation.NewPassageRepository(gormDB)
	ctx := context.Background()

	if *reset != "" {
		if err := repo.DeleteBySource(ctx, *reset); err != nil {
			color.Red("Failed to reset source %q: %v", *reset, err)
			os.Exit(1)
		}
		color.Yellow("Cleared existing passages with source %q", *reset)
	}

	corpus := defaultCorpus
	if *filePath != "" {
		corpus, err = loadCorpusFile(*filePath)
		if err != nil {
			color.Red("Failed to load corpus file: %v", err)
			os.Exit(1)
		}
		color.Yellow("Loaded %d passages from %s", len(corpus), *filePath)
	}

	passages := make([]*entity.Passage, 0, len(corpus))
	vectors := make([][]float32, 0, len(corpus))

	start := time.Now()
	for i, p := range corpus {
		resp, err := provider.Generate(ctx, p.Content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			color.Red("Embedding failed for passage %d: %v", i+1, err)
			os.Exit(1)
		}
		passages = append(passages, &entity.Passage{
			Id:      uuid.New(),
			Source:  p.Source,
			Content: p.Content,
		})
		vectors = append(vectors, resp.Embedding.Values)
		fmt.Printf("  embedded %d/%d\r", i+1, len(corpus))
	}
	fmt.Println()

	if err := repo.CreateBulk(ctx, passages, vectors); err != nil {
		color.Red("Bulk insert failed: %v", err)
		os.Exit(1)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		color.Red("Count failed: %v", err)
		os.Exit(1)
	}

	color.Green("Seeded %d passages in %s (corpus total: %d)", len(passages), time.Since(start).Round(time.Millisecond), total)
	color.Cyan("\n✅ Done")
}

func loadCorpusFile(path string) ([]seedPassage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []seedPassage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("invalid corpus JSON: %w", err)
	}
	for i, e := range entries {
		if e.Content == "" {
			return nil, fmt.Errorf("entry %d has empty content", i)
		}
		if e.Source == "" {
			entries[i].Source = defaultSource
		}
	}
	return entries, nil
}
