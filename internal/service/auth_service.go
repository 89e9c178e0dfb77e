package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conceptme/internal/domain"
	"conceptme/internal/logger"
	"conceptme/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "conceptme"

// AuthService handles email/password accounts and bearer tokens.
type AuthService interface {
	SignUp(ctx context.Context, email, password, confirm string) (*domain.UserProfile, error)
	// Login returns a signed token for valid credentials.
	Login(ctx context.Context, email, password string) (string, error)
	// ValidateToken returns the owner id carried by token.
	ValidateToken(ctx context.Context, token string) (string, error)
}

type authServiceImpl struct {
	userRepo domain.UserRepository
	secret   []byte
	ttl      time.Duration
	cost     int
}

// NewAuthService creates an AuthService signing HS256 tokens with secret.
func NewAuthService(userRepo domain.UserRepository, secret string, ttl time.Duration) (AuthService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &authServiceImpl{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
	}, nil
}

func (s *authServiceImpl) SignUp(ctx context.Context, email, password, confirm string) (*domain.UserProfile, error) {
	if err := domain.ValidateSignUp(email, password, confirm); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, asPersistenceError("failed to check email", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := domain.NewUserProfile(util.NewULID(), email, string(hash))
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, asPersistenceError("failed to create user", err)
	}
	logger.Get().Info("User signed up", zap.String("user_id", user.ID))
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", asPersistenceError("failed to load user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.NewUnauthorizedError("invalid email or password")
	}
	return s.createToken(user.ID)
}

func (s *authServiceImpl) createToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.NewInternalError("failed to sign token", err)
	}
	return token, nil
}

func (s *authServiceImpl) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.NewUnauthorizedError("token expired")
		}
		logger.Get().Debug("JWT validation failed", zap.Error(err))
		return "", domain.NewUnauthorizedError("invalid token")
	}
	if !token.Valid || claims.Subject == "" {
		return "", domain.NewUnauthorizedError("invalid token")
	}
	return claims.Subject, nil
}
