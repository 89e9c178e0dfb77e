package service

import (
	"context"

	"conceptme/internal/domain"
	"conceptme/internal/logger"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// UserService covers the profile screens and the leaderboard.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID, name string, age int) (*domain.UserProfile, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type userService struct {
	userRepo    domain.UserRepository
	leaderboard domain.Leaderboard
	maxLimit    int
}

// NewUserService creates a UserService. maxLimit caps leaderboard reads.
func NewUserService(userRepo domain.UserRepository, leaderboard domain.Leaderboard, maxLimit int) UserService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &userService{userRepo: userRepo, leaderboard: leaderboard, maxLimit: maxLimit}
}

// GetProfile reports the score held by the leaderboard, which is authoritative.
func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, asPersistenceError("failed to load profile", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user not found")
	}

	score, err := s.leaderboard.Score(ctx, userID)
	if err != nil {
		logger.Get().Warn("Failed to read leaderboard score, using stored score", zap.String("user_id", userID), zap.Error(err))
	} else {
		user.Score = score
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID, name string, age int) (*domain.UserProfile, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.ApplyProfileUpdate(name, age); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, asPersistenceError("failed to update profile", err)
	}
	return user, nil
}

// Leaderboard returns the top entries with display names filled from profiles.
func (s *userService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	entries, err := s.leaderboard.Top(ctx, limit)
	if err != nil {
		return nil, asPersistenceError("failed to read leaderboard", err)
	}

	missing := lo.FilterMap(entries, func(e domain.LeaderboardEntry, _ int) (string, bool) {
		return e.OwnerID, e.DisplayName == ""
	})
	if len(missing) == 0 {
		return entries, nil
	}

	names, err := s.userRepo.ListNames(ctx, missing)
	if err != nil {
		logger.Get().Warn("Failed to resolve leaderboard names", zap.Error(err))
		return entries, nil
	}
	return lo.Map(entries, func(e domain.LeaderboardEntry, _ int) domain.LeaderboardEntry {
		if e.DisplayName == "" {
			e.DisplayName = names[e.OwnerID]
		}
		return e
	}), nil
}
