package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"dr-vain-be/internal/dto"
	"dr-vain-be/internal/pkg/logger"
	"dr-vain-be/pkg/llm"
	"dr-vain-be/pkg/rag/conversation"
	"dr-vain-be/pkg/rag/prompt"
	"dr-vain-be/pkg/rag/session"
	"dr-vain-be/pkg/textstats"
)

const topWordLimit = 25

// ErrNoArchivedSessions is returned when a report is requested before any
// session has been sealed.
var ErrNoArchivedSessions = errors.New("no archived sessions to analyze")

// IReportService is the batch-analysis collaborator over the read-only
// archive view: word-frequency statistics plus the LLM-written diagnosis.
type IReportService interface {
	GetDiagnosis(ctx context.Context) (*dto.DiagnosisResponse, error)
	GetWordStats(ctx context.Context) (*dto.WordStatsResponse, error)
	RefreshStats()
}

type reportService struct {
	sessions    *session.Manager
	llmProvider llm.LLMProvider
	analyzer    *textstats.Analyzer
	logger      logger.ILogger

	mu          sync.RWMutex
	cachedStats *dto.WordStatsResponse
}

func NewReportService(sessions *session.Manager, llmProvider llm.LLMProvider, log logger.ILogger) IReportService {
	return &reportService{
		sessions:    sessions,
		llmProvider: llmProvider,
		analyzer:    textstats.NewAnalyzer(),
		logger:      log,
	}
}

// GetDiagnosis formats the archived transcripts and asks the model for the
// two-paragraph diagnosis report.
func (s *reportService) GetDiagnosis(ctx context.Context) (*dto.DiagnosisResponse, error) {
	records := s.sessions.GetArchive()
	if len(records) == 0 {
		return nil, ErrNoArchivedSessions
	}

	transcripts := make([][]llm.Message, len(records))
	for i, record := range records {
		transcripts[i] = stripLifecycle(record.History)
	}

	userPrompt := prompt.NewDiagnosisBuilder(transcripts).Build()
	messages := []llm.Message{
		{Role: conversation.RoleSystem, Content: prompt.DiagnosisSystemPrompt},
		{Role: conversation.RoleUser, Content: userPrompt},
	}

	report, err := s.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.6))
	if err != nil {
		s.logger.Error("report", "Diagnosis generation failed", map[string]interface{}{"error": err.Error()})
		return nil, &conversation.CompletionError{Err: err}
	}

	return &dto.DiagnosisResponse{
		Report:       report,
		SessionCount: len(records),
		GeneratedAt:  time.Now(),
	}, nil
}

// GetWordStats serves the cached frequency table, computing it on demand
// the first time.
func (s *reportService) GetWordStats(ctx context.Context) (*dto.WordStatsResponse, error) {
	s.mu.RLock()
	cached := s.cachedStats
	s.mu.RUnlock()

	if cached != nil {
		return cached, nil
	}

	stats := s.computeStats()
	if stats == nil {
		return nil, ErrNoArchivedSessions
	}

	s.mu.Lock()
	s.cachedStats = stats
	s.mu.Unlock()
	return stats, nil
}

// RefreshStats recomputes the cached table. Invoked by the archive-event
// consumer each time a session is sealed.
func (s *reportService) RefreshStats() {
	stats := s.computeStats()

	s.mu.Lock()
	s.cachedStats = stats
	s.mu.Unlock()

	if stats != nil {
		s.logger.Debug("report", "Word statistics refreshed", map[string]interface{}{
			"sessions":    stats.SessionCount,
			"total_words": stats.TotalWords,
		})
	}
}

func (s *reportService) computeStats() *dto.WordStatsResponse {
	records := s.sessions.GetArchive()
	if len(records) == 0 {
		return nil
	}

	var texts []string
	for _, record := range records {
		for _, msg := range stripLifecycle(record.History) {
			texts = append(texts, msg.Content)
		}
	}

	topWords := s.analyzer.TopWords(texts, topWordLimit)
	out := make([]dto.WordCountDTO, len(topWords))
	for i, wc := range topWords {
		out[i] = dto.WordCountDTO{Word: wc.Word, Count: wc.Count}
	}

	return &dto.WordStatsResponse{
		SessionCount: len(records),
		TotalWords:   s.analyzer.TotalWords(texts),
		TopWords:     out,
		ComputedAt:   time.Now(),
	}
}

// stripLifecycle removes the welcome and farewell entries from a sealed
// transcript before analysis. The welcome is always the first entry; a
// farewell is an assistant entry appended directly after another assistant
// entry (or after the welcome), so it is never a genuine turn reply.
func stripLifecycle(history []llm.Message) []llm.Message {
	if len(history) == 0 {
		return history
	}

	msgs := history
	if msgs[0].Role == conversation.RoleAssistant {
		msgs = msgs[1:]
	}

	if n := len(msgs); n > 0 && msgs[n-1].Role == conversation.RoleAssistant {
		if n == 1 || msgs[n-2].Role == conversation.RoleAssistant {
			msgs = msgs[:n-1]
		}
	}
	return msgs
}
