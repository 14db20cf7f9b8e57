package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dr-vain-be/pkg/llm"
	"dr-vain-be/pkg/rag/conversation"
	"dr-vain-be/pkg/rag/retrieval"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fixedRetriever struct{}

func (fixedRetriever) Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Passage, error) {
	return nil, nil
}

type fixedCompletion struct{ reply string }

func (f fixedCompletion) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.reply, nil
}

func (f fixedCompletion) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.reply, nil
}

var managerPersona = conversation.Persona{
	Name:        "test",
	Instruction: "You are a test therapist.",
	Welcome:     "Welcome to the test.",
	Farewells:   []string{"Goodbye from the test."},
}

func testFactory(reply string) EngineFactory {
	return func(id string) (*conversation.Engine, error) {
		return conversation.NewEngine(id, managerPersona, fixedRetriever{}, fixedCompletion{reply: reply})
	}
}

func newTestManager(t *testing.T, capacity int) *Manager {
	t.Helper()
	return NewManager(testFactory("a reply"), capacity, nopLogger{})
}

func TestStartNewSessionIdsAndWelcome(t *testing.T) {
	m := newTestManager(t, 5)

	id, err := m.StartNewSession()
	if err != nil {
		t.Fatalf("StartNewSession: %v", err)
	}
	if id != "session_1" {
		t.Errorf("first id = %q, want session_1", id)
	}

	history, err := m.ActiveHistory(id)
	if err != nil {
		t.Fatalf("ActiveHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("fresh history length = %d, want 1", len(history))
	}
	if history[0].Role != conversation.RoleAssistant || history[0].Content != managerPersona.Welcome {
		t.Errorf("history[0] = %+v, want welcome message", history[0])
	}
}

func TestStartNewSessionArchivesPredecessor(t *testing.T) {
	m := newTestManager(t, 5)

	first, _ := m.StartNewSession()
	if _, err := m.SendMessage(context.Background(), first, "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	second, err := m.StartNewSession()
	if err != nil {
		t.Fatalf("second StartNewSession: %v", err)
	}
	if second != "session_2" {
		t.Errorf("second id = %q, want session_2", second)
	}

	// Predecessor is sealed; only the new session is active
	if _, err := m.ActiveHistory(first); !errors.Is(err, ErrSessionMismatch) {
		t.Errorf("ActiveHistory(%s) error = %v, want ErrSessionMismatch", first, err)
	}

	records := m.GetArchive()
	if len(records) != 1 {
		t.Fatalf("archive length = %d, want 1", len(records))
	}
	if records[0].Id != first {
		t.Errorf("archived id = %q, want %q", records[0].Id, first)
	}
	// Implicit seal on restart adds no farewell: welcome + user + assistant
	if len(records[0].History) != 3 {
		t.Errorf("archived history length = %d, want 3", len(records[0].History))
	}
}

func TestEndSessionAppendsFarewell(t *testing.T) {
	m := newTestManager(t, 5)

	id, _ := m.StartNewSession()
	if err := m.EndSession(id); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	records := m.GetArchive()
	if len(records) != 1 {
		t.Fatalf("archive length = %d, want 1", len(records))
	}
	history := records[0].History
	last := history[len(history)-1]
	if last.Role != conversation.RoleAssistant || last.Content != "Goodbye from the test." {
		t.Errorf("last entry = %+v, want farewell", last)
	}

	// Slot is empty again
	if _, err := m.ActiveHistory(id); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("ActiveHistory after end = %v, want ErrNoActiveSession", err)
	}
}

func TestEndSessionMismatch(t *testing.T) {
	m := newTestManager(t, 5)

	if err := m.EndSession("session_1"); !errors.Is(err, ErrSessionMismatch) {
		t.Errorf("EndSession with no active session = %v, want ErrSessionMismatch", err)
	}

	id, _ := m.StartNewSession()
	if err := m.EndSession("session_99"); !errors.Is(err, ErrSessionMismatch) {
		t.Errorf("EndSession with stale id = %v, want ErrSessionMismatch", err)
	}

	// The mismatch must not have touched the active session
	history, err := m.ActiveHistory(id)
	if err != nil {
		t.Fatalf("active session was disturbed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history length = %d, want 1", len(history))
	}
	if len(m.GetArchive()) != 0 {
		t.Error("mismatched end must not archive anything")
	}
}

func TestSendMessageMismatch(t *testing.T) {
	m := newTestManager(t, 5)

	if _, err := m.SendMessage(context.Background(), "session_1", "hi"); !errors.Is(err, ErrSessionMismatch) {
		t.Errorf("SendMessage with no active session = %v, want ErrSessionMismatch", err)
	}

	id, _ := m.StartNewSession()
	if _, err := m.SendMessage(context.Background(), "session_99", "hi"); !errors.Is(err, ErrSessionMismatch) {
		t.Errorf("SendMessage with stale id = %v, want ErrSessionMismatch", err)
	}

	history, _ := m.ActiveHistory(id)
	if len(history) != 1 {
		t.Error("mismatched send must not mutate the active transcript")
	}
}

func TestSendMessageAppendsTurn(t *testing.T) {
	m := newTestManager(t, 5)

	id, _ := m.StartNewSession()
	reply, err := m.SendMessage(context.Background(), id, "I keep overthinking.")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply != "a reply" {
		t.Errorf("reply = %q", reply)
	}

	history, _ := m.ActiveHistory(id)
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3 (welcome, user, assistant)", len(history))
	}
	if history[1].Content != "I keep overthinking." {
		t.Errorf("history[1] = %+v, want raw user text", history[1])
	}
}

func TestArchiveBoundAcrossRestarts(t *testing.T) {
	m := newTestManager(t, 5)

	var last string
	for i := 0; i < 6; i++ {
		id, err := m.StartNewSession()
		if err != nil {
			t.Fatalf("StartNewSession %d: %v", i+1, err)
		}
		last = id
	}
	if err := m.EndSession(last); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	records := m.GetArchive()
	if len(records) != 5 {
		t.Fatalf("archive length = %d, want 5", len(records))
	}
	for i, want := range []string{"session_6", "session_5", "session_4", "session_3", "session_2"} {
		if records[i].Id != want {
			t.Errorf("records[%d].Id = %q, want %q", i, records[i].Id, want)
		}
	}
}

func TestStartNewSessionFactoryFailureKeepsActive(t *testing.T) {
	calls := 0
	factory := func(id string) (*conversation.Engine, error) {
		calls++
		if calls > 1 {
			return nil, &conversation.ConfigurationError{Reason: "backend went away"}
		}
		return conversation.NewEngine(id, managerPersona, fixedRetriever{}, fixedCompletion{reply: "x"})
	}
	m := NewManager(factory, 5, nopLogger{})

	first, err := m.StartNewSession()
	if err != nil {
		t.Fatalf("first start: %v", err)
	}

	_, err = m.StartNewSession()
	var cfgErr *conversation.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("second start = %v, want ConfigurationError", err)
	}

	// The failed restart must leave the previous session untouched
	if _, err := m.ActiveHistory(first); err != nil {
		t.Errorf("previous session no longer active: %v", err)
	}
	if len(m.GetArchive()) != 0 {
		t.Error("failed restart must not archive the previous session")
	}
}

func TestOnArchiveHook(t *testing.T) {
	m := newTestManager(t, 5)

	var archived []string
	m.OnArchive(func(record Record) {
		archived = append(archived, record.Id)
	})

	id, _ := m.StartNewSession()
	m.StartNewSession()
	m.EndSession("session_2")

	want := []string{id, "session_2"}
	if fmt.Sprint(archived) != fmt.Sprint(want) {
		t.Errorf("hook saw %v, want %v", archived, want)
	}
}

func TestPickFarewellEmptyPool(t *testing.T) {
	if got := pickFarewell(nil); got == "" {
		t.Error("empty pool must still produce a farewell")
	}
	if got := pickFarewell([]string{"only one"}); got != "only one" {
		t.Errorf("pickFarewell = %q, want the single entry", got)
	}
}
