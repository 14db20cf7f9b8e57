package session

import (
	"time"

	"dr-vain-be/pkg/llm"
	"dr-vain-be/pkg/rag/conversation"
)

// DefaultCapacity bounds how many retired sessions are kept for reporting.
const DefaultCapacity = 5

// Record is the sealed, read-only form of a retired session.
type Record struct {
	Id         string
	History    []llm.Message
	Summary    string
	ArchivedAt time.Time
}

// Archive is a fixed-capacity, newest-first store of retired sessions.
// Insertion at capacity unconditionally evicts the oldest record; it never
// refuses an insert.
type Archive struct {
	capacity int
	records  []Record // index 0 is newest
}

func NewArchive(capacity int) *Archive {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Archive{
		capacity: capacity,
		records:  make([]Record, 0, capacity),
	}
}

// Insert prepends a record, evicting the oldest when full.
func (a *Archive) Insert(record Record) {
	if len(a.records) == a.capacity {
		a.records = a.records[:a.capacity-1]
	}
	a.records = append([]Record{record}, a.records...)
}

func (a *Archive) Len() int {
	return len(a.records)
}

// Snapshot returns a copy of the records, newest first. The live active
// session is never part of the archive, so readers only ever see sealed
// transcripts.
func (a *Archive) Snapshot() []Record {
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// summarize derives the cheap one-line summary stored on a record: a
// truncated excerpt of the first user message. No model call.
func summarize(history []llm.Message) string {
	if len(history) < 2 {
		return "Empty or very short session."
	}
	for _, msg := range history {
		if msg.Role == conversation.RoleUser {
			excerpt := msg.Content
			if runes := []rune(excerpt); len(runes) > 40 {
				excerpt = string(runes[:40])
			}
			return "Session started with: \"" + excerpt + "...\""
		}
	}
	return "Session with no patient messages."
}
