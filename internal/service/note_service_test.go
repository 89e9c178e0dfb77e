package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"conceptme/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNoteService_AddNote(t *testing.T) {
	repo := new(MockNoteRepository)
	svc := NewNoteService(repo)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.NoteRecord")).Return(nil)

	note, err := svc.AddNote(context.Background(), "user-1", "Photosynthesis", "Plants use sunlight.")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(note.ID, "note_"))
	assert.Equal(t, "Photosynthesis\nPlants use sunlight.", note.Body)
	assert.Equal(t, "Photosynthesis", note.Heading())
	assert.Equal(t, "Plants use sunlight.", note.Content())
	repo.AssertExpectations(t)
}

func TestNoteService_AddNoteRequiresHeading(t *testing.T) {
	repo := new(MockNoteRepository)
	svc := NewNoteService(repo)

	_, err := svc.AddNote(context.Background(), "user-1", "  ", "content")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestNoteService_AddNoteTooLong(t *testing.T) {
	repo := new(MockNoteRepository)
	svc := NewNoteService(repo)

	_, err := svc.AddNote(context.Background(), "user-1", "광합성", strings.Repeat("광합성", 1000))
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.False(t, domainErr.Retryable())
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestNoteService_AddNoteSaveFailure(t *testing.T) {
	repo := new(MockNoteRepository)
	svc := NewNoteService(repo)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("ORA-01653"))

	_, err := svc.AddNote(context.Background(), "user-1", "Tides", "The moon pulls the sea.")
	assert.True(t, domain.IsCode(err, domain.CodePersistence))
}

func TestNoteService_ListNotesSearch(t *testing.T) {
	repo := new(MockNoteRepository)
	svc := NewNoteService(repo)
	notes := []*domain.NoteRecord{
		domain.NewNoteRecord("note_1", "user-1", "Apples", "fruit"),
		domain.NewNoteRecord("note_2", "user-1", "Moon", "rock"),
		domain.NewNoteRecord("note_3", "user-1", "Zebra", "stripes"),
	}
	repo.On("ListByOwner", mock.Anything, "user-1").Return(notes, nil)

	all, err := svc.ListNotes(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.ListNotes(context.Background(), "user-1", "m")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "note_2", filtered[0].ID)
	assert.Equal(t, "note_3", filtered[1].ID)
}

func TestNoteService_GetNoteOwnership(t *testing.T) {
	repo := new(MockNoteRepository)
	svc := NewNoteService(repo)
	repo.On("GetByID", mock.Anything, "note_1").Return(domain.NewNoteRecord("note_1", "user-2", "Secret", ""), nil)
	repo.On("GetByID", mock.Anything, "note_missing").Return(nil, nil)

	_, err := svc.GetNote(context.Background(), "user-1", "note_1")
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	_, err = svc.GetNote(context.Background(), "user-1", "note_missing")
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	note, err := svc.GetNote(context.Background(), "user-2", "note_1")
	require.NoError(t, err)
	assert.Equal(t, "Secret", note.Heading())
}

func TestNoteService_DeleteNote(t *testing.T) {
	repo := new(MockNoteRepository)
	svc := NewNoteService(repo)
	repo.On("GetByID", mock.Anything, "note_1").Return(domain.NewNoteRecord("note_1", "user-1", "Tides", ""), nil)
	repo.On("Delete", mock.Anything, "note_1").Return(nil)

	require.NoError(t, svc.DeleteNote(context.Background(), "user-1", "note_1"))

	err := svc.DeleteNote(context.Background(), "user-2", "note_1")
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}
