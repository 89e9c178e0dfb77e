package service

import (
	"context"

	"conceptme/internal/domain"
	"conceptme/internal/logger"
	"conceptme/internal/util"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// NoteService manages explanations saved as notes.
type NoteService interface {
	AddNote(ctx context.Context, ownerID, heading, content string) (*domain.NoteRecord, error)
	// ListNotes keeps notes whose body sorts at or after the upper-cased search term.
	ListNotes(ctx context.Context, ownerID, search string) ([]*domain.NoteRecord, error)
	GetNote(ctx context.Context, ownerID, id string) (*domain.NoteRecord, error)
	DeleteNote(ctx context.Context, ownerID, id string) error
}

type noteService struct {
	repo domain.NoteRepository
}

func NewNoteService(repo domain.NoteRepository) NoteService {
	return &noteService{repo: repo}
}

func (s *noteService) AddNote(ctx context.Context, ownerID, heading, content string) (*domain.NoteRecord, error) {
	note := domain.NewNoteRecord(util.NewNoteID(), ownerID, heading, content)
	if err := note.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, note); err != nil {
		logger.Get().Error("Failed to save note", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, asPersistenceError("failed to save note", err)
	}
	return note, nil
}

func (s *noteService) ListNotes(ctx context.Context, ownerID, search string) ([]*domain.NoteRecord, error) {
	notes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, asPersistenceError("failed to list notes", err)
	}
	return lo.Filter(notes, func(n *domain.NoteRecord, _ int) bool {
		return n.MatchesSearch(search)
	}), nil
}

// GetNote reports NotFound for notes owned by someone else.
func (s *noteService) GetNote(ctx context.Context, ownerID, id string) (*domain.NoteRecord, error) {
	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asPersistenceError("failed to get note", err)
	}
	if note == nil || note.OwnerID != ownerID {
		return nil, domain.NewNotFoundError("note not found").WithContext("note_id", id)
	}
	return note, nil
}

func (s *noteService) DeleteNote(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetNote(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Get().Error("Failed to delete note", zap.String("note_id", id), zap.Error(err))
		return asPersistenceError("failed to delete note", err)
	}
	return nil
}
