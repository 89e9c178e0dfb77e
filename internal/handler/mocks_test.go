package handler_test

import (
	"context"
	"strings"

	"conceptme/internal/domain"
	"conceptme/internal/service"
)

// --- Manual Mocks ---

type MockAuthService struct {
	SignUpFunc func(ctx context.Context, email, password, confirm string) (*domain.UserProfile, error)
	LoginFunc  func(ctx context.Context, email, password string) (string, error)
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password, confirm string) (*domain.UserProfile, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password, confirm)
	}
	panic("MockAuthService.SignUpFunc not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

// ValidateToken accepts tokens of the form "token-<owner>".
func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	ownerID, ok := strings.CutPrefix(token, "token-")
	if !ok || ownerID == "" {
		return "", domain.NewUnauthorizedError("invalid token")
	}
	return ownerID, nil
}

type MockExplanationService struct {
	GenerateFunc func(ctx context.Context, ownerID, topic string, audienceAge int) (*domain.ExplanationResult, error)
}

func (m *MockExplanationService) Generate(ctx context.Context, ownerID, topic string, audienceAge int) (*domain.ExplanationResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, ownerID, topic, audienceAge)
	}
	panic("MockExplanationService.GenerateFunc not implemented")
}

type MockGradingService struct {
	LoadQueueFunc    func(ctx context.Context, ownerID string) ([]*domain.QuizRecord, error)
	StartFunc        func(ctx context.Context, ownerID string) (*domain.GradingSession, error)
	CurrentFunc      func(ctx context.Context, ownerID string) (*domain.GradingSession, error)
	SelectAnswerFunc func(ctx context.Context, ownerID string, questionIndex int, answer string) (*domain.GradingSession, error)
	SubmitFunc       func(ctx context.Context, ownerID string) (*service.SubmitResult, error)
	NextFunc         func(ctx context.Context, ownerID string) (*domain.GradingSession, error)
	FinishFunc       func(ctx context.Context, ownerID string) (int, error)
}

func (m *MockGradingService) LoadQueue(ctx context.Context, ownerID string) ([]*domain.QuizRecord, error) {
	if m.LoadQueueFunc != nil {
		return m.LoadQueueFunc(ctx, ownerID)
	}
	panic("MockGradingService.LoadQueueFunc not implemented")
}

func (m *MockGradingService) Start(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, ownerID)
	}
	panic("MockGradingService.StartFunc not implemented")
}

func (m *MockGradingService) Current(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, ownerID)
	}
	panic("MockGradingService.CurrentFunc not implemented")
}

func (m *MockGradingService) SelectAnswer(ctx context.Context, ownerID string, questionIndex int, answer string) (*domain.GradingSession, error) {
	if m.SelectAnswerFunc != nil {
		return m.SelectAnswerFunc(ctx, ownerID, questionIndex, answer)
	}
	panic("MockGradingService.SelectAnswerFunc not implemented")
}

func (m *MockGradingService) Submit(ctx context.Context, ownerID string) (*service.SubmitResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, ownerID)
	}
	panic("MockGradingService.SubmitFunc not implemented")
}

func (m *MockGradingService) Next(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, ownerID)
	}
	panic("MockGradingService.NextFunc not implemented")
}

func (m *MockGradingService) Finish(ctx context.Context, ownerID string) (int, error) {
	if m.FinishFunc != nil {
		return m.FinishFunc(ctx, ownerID)
	}
	panic("MockGradingService.FinishFunc not implemented")
}

type MockNoteService struct {
	AddNoteFunc    func(ctx context.Context, ownerID, heading, content string) (*domain.NoteRecord, error)
	ListNotesFunc  func(ctx context.Context, ownerID, search string) ([]*domain.NoteRecord, error)
	GetNoteFunc    func(ctx context.Context, ownerID, id string) (*domain.NoteRecord, error)
	DeleteNoteFunc func(ctx context.Context, ownerID, id string) error
}

func (m *MockNoteService) AddNote(ctx context.Context, ownerID, heading, content string) (*domain.NoteRecord, error) {
	if m.AddNoteFunc != nil {
		return m.AddNoteFunc(ctx, ownerID, heading, content)
	}
	panic("MockNoteService.AddNoteFunc not implemented")
}

func (m *MockNoteService) ListNotes(ctx context.Context, ownerID, search string) ([]*domain.NoteRecord, error) {
	if m.ListNotesFunc != nil {
		return m.ListNotesFunc(ctx, ownerID, search)
	}
	panic("MockNoteService.ListNotesFunc not implemented")
}

func (m *MockNoteService) GetNote(ctx context.Context, ownerID, id string) (*domain.NoteRecord, error) {
	if m.GetNoteFunc != nil {
		return m.GetNoteFunc(ctx, ownerID, id)
	}
	panic("MockNoteService.GetNoteFunc not implemented")
}

func (m *MockNoteService) DeleteNote(ctx context.Context, ownerID, id string) error {
	if m.DeleteNoteFunc != nil {
		return m.DeleteNoteFunc(ctx, ownerID, id)
	}
	panic("MockNoteService.DeleteNoteFunc not implemented")
}

type MockUserService struct {
	GetProfileFunc    func(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfileFunc func(ctx context.Context, userID, name string, age int) (*domain.UserProfile, error)
	LeaderboardFunc   func(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	panic("MockUserService.GetProfileFunc not implemented")
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID, name string, age int) (*domain.UserProfile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, name, age)
	}
	panic("MockUserService.UpdateProfileFunc not implemented")
}

func (m *MockUserService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx, limit)
	}
	panic("MockUserService.LeaderboardFunc not implemented")
}
