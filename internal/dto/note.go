package dto

import (
	"time"

	"conceptme/internal/domain"
)

type CreateNoteRequest struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	Heading   string    `json:"heading"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int            `json:"total"`
}

func NewNoteResponse(note *domain.NoteRecord) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Heading:   note.Heading(),
		Content:   note.Content(),
		CreatedAt: note.CreatedAt,
	}
}

func NewNoteListResponse(notes []*domain.NoteRecord) NoteListResponse {
	resp := NoteListResponse{Notes: make([]NoteResponse, 0, len(notes)), Total: len(notes)}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, NewNoteResponse(n))
	}
	return resp
}
