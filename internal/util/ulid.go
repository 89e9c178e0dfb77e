package util

import (
	"github.com/oklog/ulid/v2"
)

const (
	QuizIDPrefix = "quiz_"
	NoteIDPrefix = "note_"
)

// NewULID returns a new ULID string. ulid.Make uses a process-wide monotonic
// entropy source, so ids created later sort after earlier ones.
func NewULID() string {
	return ulid.Make().String()
}

func NewQuizID() string {
	return QuizIDPrefix + NewULID()
}

func NewNoteID() string {
	return NoteIDPrefix + NewULID()
}
