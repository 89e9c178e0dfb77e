package domain

import (
	"context"
	"strings"
	"time"
)

// MaxNoteBodyBytes is the capacity of the notes.note_value column, in bytes.
const MaxNoteBodyBytes = 4000

// NoteRecord is a saved explanation. The first line of Body is the heading.
type NoteRecord struct {
	ID        string
	OwnerID   string
	Body      string
	CreatedAt time.Time
}

// NewNoteRecord builds a note whose body is heading and content joined by a newline.
func NewNoteRecord(id, ownerID, heading, content string) *NoteRecord {
	return &NoteRecord{
		ID:        id,
		OwnerID:   ownerID,
		Body:      heading + "\n" + content,
		CreatedAt: time.Now(),
	}
}

// Validate validates the note
func (n *NoteRecord) Validate() error {
	if n.OwnerID == "" {
		return NewValidationError("note owner is required")
	}
	if strings.TrimSpace(n.Heading()) == "" {
		return NewValidationError("note heading is required")
	}
	if len(n.Body) > MaxNoteBodyBytes {
		return NewValidationError("note is too long").
			WithContext("bytes", len(n.Body)).
			WithContext("max_bytes", MaxNoteBodyBytes)
	}
	return nil
}

func (n *NoteRecord) Heading() string {
	heading, _, _ := strings.Cut(n.Body, "\n")
	return heading
}

func (n *NoteRecord) Content() string {
	_, content, _ := strings.Cut(n.Body, "\n")
	return content
}

// MatchesSearch applies the note search rule: the body must sort at or after
// the upper-cased search term. An empty term matches everything.
func (n *NoteRecord) MatchesSearch(search string) bool {
	if search == "" {
		return true
	}
	return n.Body >= strings.ToUpper(search)
}

// NoteRepository defines the interface for note persistence.
type NoteRepository interface {
	Save(ctx context.Context, note *NoteRecord) error
	// GetByID returns (nil, nil) when the note does not exist.
	GetByID(ctx context.Context, id string) (*NoteRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*NoteRecord, error)
	Delete(ctx context.Context, id string) error
}
