package handler

import (
	"conceptme/internal/dto"
	"conceptme/internal/middleware"
	"conceptme/internal/service"
	"conceptme/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// NoteHandler handles saved explanation notes.
type NoteHandler struct {
	notes     service.NoteService
	validator *validation.Validator
}

func NewNoteHandler(notes service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes, validator: validation.NewValidator()}
}

// CreateNote godoc
// @Summary Save an explanation as a note
// @Tags notes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateNoteRequest true "Note"
// @Success 201 {object} dto.NoteResponse
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateNoteRequest(req.Heading, req.Content); len(errs) > 0 {
		return errs
	}

	note, err := h.notes.AddNote(c.Context(), ownerID, req.Heading, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewNoteResponse(note))
}

// ListNotes godoc
// @Summary List notes
// @Tags notes
// @Security ApiKeyAuth
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} dto.NoteListResponse
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	notes, err := h.notes.ListNotes(c.Context(), ownerID, c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewNoteListResponse(notes))
}

func (h *NoteHandler) GetNote(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	note, err := h.notes.GetNote(c.Context(), ownerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewNoteResponse(note))
}

func (h *NoteHandler) DeleteNote(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	if err := h.notes.DeleteNote(c.Context(), ownerID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
