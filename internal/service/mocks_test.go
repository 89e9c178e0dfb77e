package service

import (
	"context"
	"sort"
	"sync"

	"conceptme/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Save(ctx context.Context, quiz *domain.QuizRecord) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.QuizRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizRecord), args.Error(1)
}

func (m *MockQuizRepository) DeleteByIDs(ctx context.Context, ownerID string, ids []string) error {
	args := m.Called(ctx, ownerID, ids)
	return args.Error(0)
}

// --- MockExplanationGenerator ---
type MockExplanationGenerator struct {
	mock.Mock
}

func (m *MockExplanationGenerator) Generate(ctx context.Context, topic string, audienceAge int) (*domain.GeneratedExplanation, error) {
	args := m.Called(ctx, topic, audienceAge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedExplanation), args.Error(1)
}

// --- MockLeaderboard ---
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) AddScore(ctx context.Context, ownerID, foldKey string, delta int) (int, bool, error) {
	args := m.Called(ctx, ownerID, foldKey, delta)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockLeaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboard) Score(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.UserProfile) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *domain.UserProfile) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ListNames(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// --- MockNoteRepository ---
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Save(ctx context.Context, note *domain.NoteRecord) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id string) (*domain.NoteRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NoteRecord), args.Error(1)
}

func (m *MockNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.NoteRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.NoteRecord), args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockTransactionManager ---
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// memoryQuizRepository is an in-memory domain.QuizRepository for pipeline/engine round trips.
type memoryQuizRepository struct {
	mu      sync.Mutex
	quizzes map[string]domain.QuizRecord
	saves   int
}

func newMemoryQuizRepository() *memoryQuizRepository {
	return &memoryQuizRepository{quizzes: make(map[string]domain.QuizRecord)}
}

func (r *memoryQuizRepository) Save(ctx context.Context, quiz *domain.QuizRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[quiz.ID] = *quiz
	r.saves++
	return nil
}

func (r *memoryQuizRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.QuizRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.QuizRecord
	for _, q := range r.quizzes {
		if q.OwnerID == ownerID {
			q := q
			out = append(out, &q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryQuizRepository) DeleteByIDs(ctx context.Context, ownerID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if q, ok := r.quizzes[id]; ok && q.OwnerID == ownerID {
			delete(r.quizzes, id)
		}
	}
	return nil
}

func sampleGenerated() *domain.GeneratedExplanation {
	return &domain.GeneratedExplanation{
		Explanation:    "Plants use sunlight to make food.",
		FollowUpTopics: []string{"Why are leaves green?", "What is chlorophyll?", "Do plants breathe?", "Why do plants need water?"},
		Questions:      [5]string{"Q1", "Q2", "Q3", "Q4", "Q5"},
		CorrectAnswers: [5]string{"Sunlight", "CO2", "Oxygen", "Green", "Leaves"},
		DecoyAnswers: [5][3]string{
			{"Moonlight", "Sound", "Wind"},
			{"Helium", "Neon", "Argon"},
			{"Nitrogen", "Hydrogen", "Smoke"},
			{"Blue", "Red", "Purple"},
			{"Roots", "Flowers", "Seeds"},
		},
	}
}
