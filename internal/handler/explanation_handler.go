package handler

import (
	"conceptme/internal/dto"
	"conceptme/internal/middleware"
	"conceptme/internal/service"
	"conceptme/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ExplanationHandler serves the explanation request pipeline.
type ExplanationHandler struct {
	service   service.ExplanationService
	validator *validation.Validator
}

func NewExplanationHandler(service service.ExplanationService) *ExplanationHandler {
	return &ExplanationHandler{service: service, validator: validation.NewValidator()}
}

// CreateExplanation godoc
// @Summary Explain a topic
// @Description Generates an explanation, follow-up topics and a quiz, and stores the quiz.
// @Tags explanations
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.ExplanationRequest true "Topic and audience age"
// @Success 200 {object} dto.ExplanationResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /explanations [post]
func (h *ExplanationHandler) CreateExplanation(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}

	var req dto.ExplanationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateExplanationRequest(req.Topic, req.Age); len(errs) > 0 {
		return errs
	}

	result, err := h.service.Generate(c.Context(), ownerID, req.Topic, req.Age)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewExplanationResponse(result))
}
