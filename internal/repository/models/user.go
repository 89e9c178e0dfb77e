package models

import (
	"database/sql"
	"time"
)

// User represents a user in the system.
type User struct {
	ID           string         `db:"ID"`            // ULID
	Email        string         `db:"EMAIL"`         // login identifier
	PasswordHash string         `db:"PASSWORD_HASH"` // bcrypt
	Name         sql.NullString `db:"NAME"`
	Age          sql.NullInt64  `db:"AGE"`
	Score        int64          `db:"SCORE"` // cumulative quiz score
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
}

// UserName is the projection used to label leaderboard rows.
type UserName struct {
	ID   string         `db:"ID"`
	Name sql.NullString `db:"NAME"`
}

// UserScore is the projection used by the SQL leaderboard.
type UserScore struct {
	ID    string         `db:"ID"`
	Name  sql.NullString `db:"NAME"`
	Score int64          `db:"SCORE"`
}
