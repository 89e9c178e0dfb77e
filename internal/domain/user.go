package domain

import (
	"context"
	"strings"
	"time"
)

const MinPasswordLength = 6

// UserProfile is a registered user together with their cumulative quiz score.
type UserProfile struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Age          int
	Score        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUserProfile creates a new user with a zero score.
func NewUserProfile(id, email, passwordHash string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		ID:           id,
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ValidateSignUp checks sign-up input before any hashing or storage.
func ValidateSignUp(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" {
		return NewValidationError("email is required")
	}
	if len(password) < MinPasswordLength {
		return NewValidationError("password must be at least 6 characters")
	}
	if password != confirm {
		return NewValidationError("passwords do not match")
	}
	return nil
}

// ApplyProfileUpdate sets the editable profile fields.
func (u *UserProfile) ApplyProfileUpdate(name string, age int) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name is required")
	}
	if err := ValidateAge(age); err != nil {
		return err
	}
	u.Name = strings.TrimSpace(name)
	u.Age = age
	u.UpdatedAt = time.Now()
	return nil
}

// LeaderboardEntry is one row of the leaderboard.
type LeaderboardEntry struct {
	OwnerID         string
	DisplayName     string
	CumulativeScore int
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *UserProfile) error
	// GetByID and GetByEmail return (nil, nil) when no user matches.
	GetByID(ctx context.Context, id string) (*UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, user *UserProfile) error
	// ListNames maps user ids to display names.
	ListNames(ctx context.Context, ids []string) (map[string]string, error)
}

// Leaderboard stores cumulative scores. AddScore must be an atomic increment
// that creates the entry when it does not exist, and it applies each foldKey at
// most once across all callers. When foldKey was already applied it returns the
// current total with applied=false.
type Leaderboard interface {
	AddScore(ctx context.Context, ownerID, foldKey string, delta int) (total int, applied bool, err error)
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Score(ctx context.Context, ownerID string) (int, error)
}
