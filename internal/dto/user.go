package dto

import (
	"time"

	"conceptme/internal/domain"
)

// SignUpRequest creates an email/password account.
type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// UserProfileResponse represents the user's profile information.
type UserProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Age       int       `json:"age,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LeaderboardEntryResponse struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntryResponse `json:"entries"`
}

func NewUserProfileResponse(user *domain.UserProfile) UserProfileResponse {
	return UserProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Age:       user.Age,
		Score:     user.Score,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func NewLeaderboardResponse(entries []domain.LeaderboardEntry) LeaderboardResponse {
	resp := LeaderboardResponse{Entries: make([]LeaderboardEntryResponse, 0, len(entries))}
	for i, e := range entries {
		resp.Entries = append(resp.Entries, LeaderboardEntryResponse{
			Rank:   i + 1,
			UserID: e.OwnerID,
			Name:   e.DisplayName,
			Score:  e.CumulativeScore,
		})
	}
	return resp
}
