package transform

import (
	"time"

	"github.com/google/uuid"
)

// Transformation pairs one piece of submitted text with its rewritten form
// for one mode and one owning user. Word counts are always derived from the
// stored content, never supplied by a client.
type Transformation struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"userId"`
	Mode                 Mode      `json:"mode"`
	OriginalContent      string    `json:"originalContent"`
	TransformedContent   string    `json:"transformedContent"`
	OriginalWordCount    int       `json:"originalWordCount"`
	TransformedWordCount int       `json:"transformedWordCount"`
	CreatedAt            time.Time `json:"createdAt"`
}
