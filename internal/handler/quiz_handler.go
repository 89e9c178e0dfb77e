package handler

import (
	"context"

	"conceptme/internal/domain"
	"conceptme/internal/dto"
	"conceptme/internal/middleware"
	"conceptme/internal/service"
	"conceptme/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler exposes the quiz queue and the grading session.
type QuizHandler struct {
	grading   service.GradingService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(grading service.GradingService) *QuizHandler {
	return &QuizHandler{grading: grading, validator: validation.NewValidator()}
}

// ListQuizzes godoc
// @Summary List outstanding quizzes
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.QuizQueueResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	quizzes, err := h.grading.LoadQueue(c.Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizQueueResponse(quizzes))
}

// StartSession godoc
// @Summary Start grading the outstanding quizzes
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 201 {object} dto.GradingSessionResponse
// @Router /quizzes/session [post]
func (h *QuizHandler) StartSession(c *fiber.Ctx) error {
	return h.sessionAction(c, fiber.StatusCreated, h.grading.Start)
}

func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	return h.sessionAction(c, fiber.StatusOK, h.grading.Current)
}

// NextQuiz godoc
// @Summary Move to the next quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.GradingSessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quizzes/session/next [post]
func (h *QuizHandler) NextQuiz(c *fiber.Ctx) error {
	return h.sessionAction(c, fiber.StatusOK, h.grading.Next)
}

// SelectAnswer godoc
// @Summary Select an answer for a question of the current quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.SelectAnswerRequest true "Selection"
// @Success 200 {object} dto.GradingSessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quizzes/session/answers [put]
func (h *QuizHandler) SelectAnswer(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	var req dto.SelectAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateAnswerRequest(req.QuestionIndex, req.Answer); len(errs) > 0 {
		return errs
	}

	session, err := h.grading.SelectAnswer(c.Context(), ownerID, *req.QuestionIndex, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGradingSessionResponse(session))
}

// Submit godoc
// @Summary Grade the current quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.SubmitResponse
// @Failure 503 {object} middleware.ErrorResponse "Score could not be recorded, retry"
// @Router /quizzes/session/submit [post]
func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	result, err := h.grading.Submit(c.Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(dto.SubmitResponse{
		Score:           result.Score,
		MaxScore:        domain.QuestionsPerQuiz,
		AlreadyGraded:   result.AlreadyGraded,
		CumulativeScore: result.CumulativeScore,
	})
}

// Finish godoc
// @Summary Finish the session and delete its quizzes
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.FinishResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quizzes/session/finish [post]
func (h *QuizHandler) Finish(c *fiber.Ctx) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	deleted, err := h.grading.Finish(c.Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FinishResponse{Deleted: deleted})
}

type sessionFunc func(ctx context.Context, ownerID string) (*domain.GradingSession, error)

func (h *QuizHandler) sessionAction(c *fiber.Ctx, status int, fn sessionFunc) error {
	ownerID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	session, err := fn(c.Context(), ownerID)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(dto.NewGradingSessionResponse(session))
}
