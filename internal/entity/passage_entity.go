package entity

import (
	"time"

	"github.com/google/uuid"
)

// Passage is one retrievable unit of the therapist's reference corpus
// (Q&A excerpts, case vignettes, Dr. Vain lore).
type Passage struct {
	Id        uuid.UUID
	Source    string
	Content   string
	CreatedAt time.Time
}
