package handler

import (
	"conceptme/internal/dto"
	"conceptme/internal/logger"
	"conceptme/internal/middleware"
	"conceptme/internal/service"
	"conceptme/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService service.UserService
	validator   *validation.Validator
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validation.NewValidator()}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserProfileResponse(profile))
}

// UpdateMyProfile sets the display name and age of the current user.
// @Summary Update My Profile
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} dto.UserProfileResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := middleware.OwnerID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateProfileRequest(req.Name, req.Age); len(errs) > 0 {
		return errs
	}

	profile, err := h.userService.UpdateProfile(c.Context(), userID, req.Name, req.Age)
	if err != nil {
		return err
	}
	logger.Get().Info("User profile updated", zap.String("userID", userID))
	return c.JSON(dto.NewUserProfileResponse(profile))
}

// GetLeaderboard godoc
// @Summary Top cumulative scores
// @Tags users
// @Produce json
// @Param limit query int false "Number of entries"
// @Success 200 {object} dto.LeaderboardResponse
// @Router /leaderboard [get]
func (h *UserHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := c.Locals(middleware.ValidatedLimitKey).(int)
	entries, err := h.userService.Leaderboard(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLeaderboardResponse(entries))
}
