package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dr-vain-be/pkg/llm"
	"dr-vain-be/pkg/rag/conversation"
	"dr-vain-be/pkg/rag/retrieval"
	"dr-vain-be/pkg/rag/session"
)

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

type emptyRetriever struct{}

func (emptyRetriever) Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Passage, error) {
	return nil, nil
}

type scriptedLLM struct {
	reply    string
	err      error
	lastCall []llm.Message
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	snapshot := make([]llm.Message, len(history))
	copy(snapshot, history)
	s.lastCall = snapshot
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: conversation.RoleUser, Content: prompt}}, options...)
}

var reportPersona = conversation.Persona{
	Name:        "test",
	Instruction: "You are a test therapist.",
	Welcome:     "Welcome to the test.",
	Farewells:   []string{"Farewell from the test."},
}

func newTestSessionManager(turnLLM llm.LLMProvider) *session.Manager {
	factory := func(id string) (*conversation.Engine, error) {
		return conversation.NewEngine(id, reportPersona, emptyRetriever{}, turnLLM)
	}
	return session.NewManager(factory, 5, testLogger{})
}

// archiveOneSession runs a short session with the given exchanges and seals it.
func archiveOneSession(t *testing.T, manager *session.Manager, userTexts ...string) {
	t.Helper()
	id, err := manager.StartNewSession()
	if err != nil {
		t.Fatalf("StartNewSession: %v", err)
	}
	for _, text := range userTexts {
		if _, err := manager.SendMessage(context.Background(), id, text); err != nil {
			t.Fatalf("SendMessage(%q): %v", text, err)
		}
	}
	if err := manager.EndSession(id); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
}

func TestGetDiagnosisNoArchive(t *testing.T) {
	manager := newTestSessionManager(&scriptedLLM{reply: "x"})
	svc := NewReportService(manager, &scriptedLLM{reply: "report"}, testLogger{})

	_, err := svc.GetDiagnosis(context.Background())
	if !errors.Is(err, ErrNoArchivedSessions) {
		t.Errorf("GetDiagnosis on empty archive = %v, want ErrNoArchivedSessions", err)
	}
}

func TestGetDiagnosis(t *testing.T) {
	manager := newTestSessionManager(&scriptedLLM{reply: "A therapeutic reply."})
	archiveOneSession(t, manager, "I worry about everything.")

	reportLLM := &scriptedLLM{reply: "The patient exhibits worry. More Dr. Vain is advised."}
	svc := NewReportService(manager, reportLLM, testLogger{})

	resp, err := svc.GetDiagnosis(context.Background())
	if err != nil {
		t.Fatalf("GetDiagnosis: %v", err)
	}
	if resp.Report != reportLLM.reply {
		t.Errorf("Report = %q", resp.Report)
	}
	if resp.SessionCount != 1 {
		t.Errorf("SessionCount = %d, want 1", resp.SessionCount)
	}

	// The model sees the diagnosis system prompt plus the formatted transcript
	if len(reportLLM.lastCall) != 2 {
		t.Fatalf("diagnosis call message count = %d, want 2", len(reportLLM.lastCall))
	}
	if reportLLM.lastCall[0].Role != conversation.RoleSystem {
		t.Error("first message must be the diagnosis system prompt")
	}
	userPrompt := reportLLM.lastCall[1].Content
	if !strings.Contains(userPrompt, "Patient: I worry about everything.") {
		t.Error("transcript missing from the diagnosis prompt")
	}
	if strings.Contains(userPrompt, reportPersona.Welcome) {
		t.Error("welcome message must be stripped before analysis")
	}
	if strings.Contains(userPrompt, reportPersona.Farewells[0]) {
		t.Error("farewell message must be stripped before analysis")
	}
}

func TestGetDiagnosisCompletionFailure(t *testing.T) {
	manager := newTestSessionManager(&scriptedLLM{reply: "x"})
	archiveOneSession(t, manager, "hello")

	svc := NewReportService(manager, &scriptedLLM{err: errors.New("model down")}, testLogger{})

	_, err := svc.GetDiagnosis(context.Background())
	var compErr *conversation.CompletionError
	if !errors.As(err, &compErr) {
		t.Errorf("GetDiagnosis error = %T, want CompletionError", err)
	}
}

func TestGetWordStats(t *testing.T) {
	manager := newTestSessionManager(&scriptedLLM{reply: "Consider journaling."})
	archiveOneSession(t, manager, "work stress keeps growing", "stress again today")

	svc := NewReportService(manager, &scriptedLLM{reply: "unused"}, testLogger{})

	stats, err := svc.GetWordStats(context.Background())
	if err != nil {
		t.Fatalf("GetWordStats: %v", err)
	}
	if stats.SessionCount != 1 {
		t.Errorf("SessionCount = %d, want 1", stats.SessionCount)
	}
	if stats.TotalWords == 0 || len(stats.TopWords) == 0 {
		t.Fatal("stats must not be empty")
	}

	counts := make(map[string]int, len(stats.TopWords))
	for _, wc := range stats.TopWords {
		counts[wc.Word] = wc.Count
	}
	if counts["stress"] != 2 {
		t.Errorf("count[stress] = %d, want 2", counts["stress"])
	}
	// Lifecycle messages are excluded from the table
	if _, ok := counts["welcome"]; ok {
		t.Error("welcome message leaked into word stats")
	}
	if _, ok := counts["farewell"]; ok {
		t.Error("farewell message leaked into word stats")
	}
}

func TestGetWordStatsNoArchive(t *testing.T) {
	manager := newTestSessionManager(&scriptedLLM{reply: "x"})
	svc := NewReportService(manager, &scriptedLLM{reply: "x"}, testLogger{})

	_, err := svc.GetWordStats(context.Background())
	if !errors.Is(err, ErrNoArchivedSessions) {
		t.Errorf("GetWordStats on empty archive = %v, want ErrNoArchivedSessions", err)
	}
}

func TestRefreshStatsUpdatesCache(t *testing.T) {
	manager := newTestSessionManager(&scriptedLLM{reply: "Noted."})
	archiveOneSession(t, manager, "sleep trouble")

	svc := NewReportService(manager, &scriptedLLM{reply: "x"}, testLogger{})

	first, err := svc.GetWordStats(context.Background())
	if err != nil {
		t.Fatalf("GetWordStats: %v", err)
	}
	if first.SessionCount != 1 {
		t.Fatalf("SessionCount = %d, want 1", first.SessionCount)
	}

	archiveOneSession(t, manager, "sleep trouble continues")
	svc.RefreshStats()

	second, err := svc.GetWordStats(context.Background())
	if err != nil {
		t.Fatalf("GetWordStats after refresh: %v", err)
	}
	if second.SessionCount != 2 {
		t.Errorf("SessionCount after refresh = %d, want 2", second.SessionCount)
	}
}

func TestStripLifecycle(t *testing.T) {
	welcome := llm.Message{Role: conversation.RoleAssistant, Content: "Welcome."}
	user := llm.Message{Role: conversation.RoleUser, Content: "Hello."}
	reply := llm.Message{Role: conversation.RoleAssistant, Content: "A reply."}
	farewell := llm.Message{Role: conversation.RoleAssistant, Content: "Goodbye."}

	tests := []struct {
		name    string
		history []llm.Message
		want    []llm.Message
	}{
		{
			name:    "full session",
			history: []llm.Message{welcome, user, reply, farewell},
			want:    []llm.Message{user, reply},
		},
		{
			name:    "implicit seal has no farewell",
			history: []llm.Message{welcome, user, reply},
			want:    []llm.Message{user, reply},
		},
		{
			name:    "welcome and farewell only",
			history: []llm.Message{welcome, farewell},
			want:    []llm.Message{},
		},
		{
			name:    "empty history",
			history: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripLifecycle(tt.history)
			if len(got) != len(tt.want) {
				t.Fatalf("stripLifecycle() length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("stripLifecycle()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
