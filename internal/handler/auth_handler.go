package handler

import (
	"time"

	"conceptme/internal/dto"
	"conceptme/internal/logger"
	"conceptme/internal/service"
	"conceptme/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles account creation and login.
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
	tokenTTL    time.Duration
}

func NewAuthHandler(authService service.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validation.NewValidator(),
		tokenTTL:    tokenTTL,
	}
}

// SignUp godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Credentials"
// @Success 201 {object} dto.UserProfileResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateSignUpRequest(req.Email, req.Password, req.PasswordConfirm); len(errs) > 0 {
		return errs
	}

	user, err := h.authService.SignUp(c.Context(), req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserProfileResponse(user))
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateLoginRequest(req.Email, req.Password); len(errs) > 0 {
		return errs
	}

	token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		logger.Get().Info("Login failed", zap.String("ip", c.IP()), zap.Error(err))
		return err
	}
	return c.JSON(dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}
