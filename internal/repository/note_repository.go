package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"conceptme/internal/domain"
	"conceptme/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// NoteDatabaseAdapter implements domain.NoteRepository on the notes table.
type NoteDatabaseAdapter struct {
	db *sqlx.DB
}

func NewNoteDatabaseAdapter(db *sqlx.DB) domain.NoteRepository {
	return &NoteDatabaseAdapter{db: db}
}

func (a *NoteDatabaseAdapter) Save(ctx context.Context, note *domain.NoteRecord) error {
	query := `INSERT INTO notes (id, user_id, note_value, created_at) VALUES (:1, :2, :3, :4)`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, note.ID, note.OwnerID, note.Body, note.CreatedAt); err != nil {
		return fmt.Errorf("failed to save note %s: %w", note.ID, err)
	}
	return nil
}

func (a *NoteDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.NoteRecord, error) {
	var row models.Note
	query := `SELECT id, user_id, note_value, created_at FROM notes WHERE id = :1`
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return toDomainNote(&row), nil
}

// ListByOwner returns the owner's notes ordered by body, the order the search range relies on.
func (a *NoteDatabaseAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*domain.NoteRecord, error) {
	var rows []models.Note
	query := `SELECT id, user_id, note_value, created_at FROM notes WHERE user_id = :1 ORDER BY note_value, id`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list notes for user %s: %w", ownerID, err)
	}
	notes := make([]*domain.NoteRecord, 0, len(rows))
	for i := range rows {
		notes = append(notes, toDomainNote(&rows[i]))
	}
	return notes, nil
}

func (a *NoteDatabaseAdapter) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM notes WHERE id = :1`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	return nil
}

func toDomainNote(row *models.Note) *domain.NoteRecord {
	return &domain.NoteRecord{
		ID:        row.ID,
		OwnerID:   row.UserID,
		Body:      row.NoteValue,
		CreatedAt: row.CreatedAt,
	}
}
