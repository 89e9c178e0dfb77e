package models

import "time"

// Note is a row of the notes table.
type Note struct {
	ID        string    `db:"ID"`
	UserID    string    `db:"USER_ID"`
	NoteValue string    `db:"NOTE_VALUE"`
	CreatedAt time.Time `db:"CREATED_AT"`
}
