package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"dr-vain-be/internal/pkg/logger"
	"dr-vain-be/pkg/llm"
	"dr-vain-be/pkg/rag/conversation"
)

// EngineFactory constructs a conversation engine for a fresh session id.
// Construction errors (misconfigured capabilities) propagate to the caller
// of StartNewSession unchanged.
type EngineFactory func(id string) (*conversation.Engine, error)

// Manager owns the single active conversation slot and the bounded archive.
// The whole process has exactly one active session; the mutex serializes
// every lifecycle operation and every turn, so one request fully completes
// or fails before the next one touches shared state.
type Manager struct {
	mu        sync.Mutex
	factory   EngineFactory
	archive   *Archive
	active    *conversation.Engine
	counter   int
	onArchive func(Record)
	logger    logger.ILogger
}

// NewManager creates a session manager with the given archive capacity.
func NewManager(factory EngineFactory, capacity int, log logger.ILogger) *Manager {
	return &Manager{
		factory: factory,
		archive: NewArchive(capacity),
		logger:  log,
	}
}

// OnArchive registers a hook invoked synchronously with each record as it is
// archived. Used by the composition root to publish archive events.
func (m *Manager) OnArchive(fn func(Record)) {
	m.onArchive = fn
}

// StartNewSession retires the current session (if any) and activates a new
// one. The new engine is constructed before the old session is touched, so
// a construction failure leaves the previous session active and intact.
func (m *Manager) StartNewSession() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := fmt.Sprintf("session_%d", m.counter+1)
	engine, err := m.factory(id)
	if err != nil {
		return "", err
	}

	if m.active != nil {
		m.seal(m.active, "")
	}

	m.counter++
	m.active = engine
	m.active.AppendEvent(conversation.RoleAssistant, engine.Persona().Welcome)

	m.logger.Info("session", "New session started", map[string]interface{}{"session_id": id})
	return id, nil
}

// EndSession appends a farewell, seals the active session into the archive,
// and empties the slot.
func (m *Manager) EndSession(sessionId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.ID() != sessionId {
		return ErrSessionMismatch
	}

	m.seal(m.active, pickFarewell(m.active.Persona().Farewells))
	m.active = nil

	m.logger.Info("session", "Session ended", map[string]interface{}{"session_id": sessionId})
	return nil
}

// SendMessage runs one turn against the active session. Turn errors
// (invalid input, retrieval, completion) propagate unchanged.
func (m *Manager) SendMessage(ctx context.Context, sessionId, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.ID() != sessionId {
		return "", ErrSessionMismatch
	}

	return m.active.Turn(ctx, text)
}

// ActiveHistory returns a copy of the active session's transcript.
func (m *Manager) ActiveHistory(sessionId string) ([]llm.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil, ErrNoActiveSession
	}
	if m.active.ID() != sessionId {
		return nil, ErrSessionMismatch
	}

	return m.active.History(), nil
}

// GetArchive returns a read-only snapshot of the sealed records, newest
// first. The live session is never included.
func (m *Manager) GetArchive() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.archive.Snapshot()
}

// seal finishes an engine's transcript (optionally with a farewell) and
// hands it to the archive. Must be called with the lock held. Sealing runs
// to completion before the record is inserted, so archived histories are
// never mutated again.
func (m *Manager) seal(engine *conversation.Engine, farewell string) {
	if farewell != "" {
		engine.AppendEvent(conversation.RoleAssistant, farewell)
	}

	history := engine.History()
	record := Record{
		Id:         engine.ID(),
		History:    history,
		Summary:    summarize(history),
		ArchivedAt: time.Now(),
	}
	m.archive.Insert(record)

	m.logger.Info("session", "Session archived", map[string]interface{}{
		"session_id": record.Id,
		"messages":   len(record.History),
	})

	if m.onArchive != nil {
		m.onArchive(record)
	}
}

// pickFarewell chooses one closing line uniformly at random. The choice is
// cosmetic and never blocks.
func pickFarewell(pool []string) string {
	if len(pool) == 0 {
		return "We will continue this another time. Goodbye."
	}
	return pool[rand.IntN(len(pool))]
}
