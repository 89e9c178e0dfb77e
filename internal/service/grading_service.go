package service

import (
	"context"
	"errors"

	"conceptme/internal/domain"
	"conceptme/internal/logger"
	"conceptme/internal/metrics"
	"conceptme/internal/util"

	"go.uber.org/zap"
)

// SubmitResult is the outcome of grading the current quiz.
// CumulativeScore is nil when the leaderboard total could not be read.
type SubmitResult struct {
	Score           int
	AlreadyGraded   bool
	CumulativeScore *int
}

// GradingService drives a per-owner grading session over their outstanding quizzes.
type GradingService interface {
	LoadQueue(ctx context.Context, ownerID string) ([]*domain.QuizRecord, error)
	Start(ctx context.Context, ownerID string) (*domain.GradingSession, error)
	Current(ctx context.Context, ownerID string) (*domain.GradingSession, error)
	SelectAnswer(ctx context.Context, ownerID string, questionIndex int, answer string) (*domain.GradingSession, error)
	Submit(ctx context.Context, ownerID string) (*SubmitResult, error)
	Next(ctx context.Context, ownerID string) (*domain.GradingSession, error)
	// Finish deletes every quiz of the session and returns how many were removed.
	Finish(ctx context.Context, ownerID string) (int, error)
}

type gradingService struct {
	quizRepo    domain.QuizRepository
	sessions    domain.GradingSessionStore
	leaderboard domain.Leaderboard
	txManager   domain.TransactionManager
	locks       *keyedMutex
}

// NewGradingService creates a GradingService. txManager may be nil, in which
// case queue deletion runs without a surrounding transaction.
func NewGradingService(
	quizRepo domain.QuizRepository,
	sessions domain.GradingSessionStore,
	leaderboard domain.Leaderboard,
	txManager domain.TransactionManager,
) GradingService {
	return &gradingService{
		quizRepo:    quizRepo,
		sessions:    sessions,
		leaderboard: leaderboard,
		txManager:   txManager,
		locks:       newKeyedMutex(),
	}
}

// LoadQueue returns the owner's outstanding quizzes in creation order.
func (s *gradingService) LoadQueue(ctx context.Context, ownerID string) ([]*domain.QuizRecord, error) {
	quizzes, err := s.quizRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, asPersistenceError("failed to load quizzes", err)
	}
	return quizzes, nil
}

// Start replaces any existing session with a fresh one over the current queue.
func (s *gradingService) Start(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	unlock := s.locks.Lock(ownerID)
	defer unlock()

	queue, err := s.LoadQueue(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	session := domain.NewGradingSession(ownerID, queue)
	session.ID = util.NewULID()
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	logger.Get().Info("Grading session started", zap.String("owner_id", ownerID), zap.Int("quizzes", len(queue)))
	return session, nil
}

func (s *gradingService) Current(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	return s.load(ctx, ownerID)
}

func (s *gradingService) SelectAnswer(ctx context.Context, ownerID string, questionIndex int, answer string) (*domain.GradingSession, error) {
	unlock := s.locks.Lock(ownerID)
	defer unlock()

	session, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := session.SelectAnswer(questionIndex, answer); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit grades the current quiz and folds the score into the leaderboard once.
// Repeating it while Graded returns the stored score without folding again.
func (s *gradingService) Submit(ctx context.Context, ownerID string) (*SubmitResult, error) {
	unlock := s.locks.Lock(ownerID)
	defer unlock()
	log := logger.Get().With(zap.String("owner_id", ownerID))

	session, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	score, alreadyGraded, err := session.Grade()
	if err != nil {
		return nil, err
	}
	if alreadyGraded {
		metrics.QuizSubmissions.WithLabelValues("repeat").Inc()
		result := &SubmitResult{Score: score, AlreadyGraded: true}
		if total, err := s.leaderboard.Score(ctx, ownerID); err == nil {
			result.CumulativeScore = &total
		} else {
			log.Warn("Failed to read cumulative score", zap.Error(err))
		}
		return result, nil
	}

	// The leaderboard applies a fold key once, so another instance grading the
	// same session concurrently cannot add the score a second time.
	foldKey := session.FoldKey()
	total, applied, err := s.leaderboard.AddScore(ctx, ownerID, foldKey, score)
	if err != nil {
		metrics.QuizSubmissions.WithLabelValues("failed").Inc()
		log.Error("Failed to fold score into leaderboard", zap.Int("score", score), zap.Error(err))
		return nil, asPersistenceError("failed to update leaderboard", err)
	}

	session.MarkGraded(score)
	if err := s.sessions.Put(ctx, session); err != nil {
		// The fold is recorded, so a retried submit reports it as already applied.
		metrics.QuizSubmissions.WithLabelValues("failed").Inc()
		return nil, err
	}

	if !applied {
		metrics.QuizSubmissions.WithLabelValues("repeat").Inc()
		log.Info("Quiz score already folded", zap.String("fold_key", foldKey))
		return &SubmitResult{Score: score, AlreadyGraded: true, CumulativeScore: &total}, nil
	}

	metrics.QuizSubmissions.WithLabelValues("graded").Inc()
	metrics.QuizScores.Observe(float64(score))
	log.Info("Quiz graded", zap.String("quiz_id", session.Current().ID), zap.Int("score", score), zap.Int("cumulative", total))
	return &SubmitResult{Score: score, CumulativeScore: &total}, nil
}

func (s *gradingService) Next(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	unlock := s.locks.Lock(ownerID)
	defer unlock()

	session, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := session.Next(); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Finish removes the whole queue in one transaction. On failure the session is
// kept so the caller can retry.
func (s *gradingService) Finish(ctx context.Context, ownerID string) (int, error) {
	unlock := s.locks.Lock(ownerID)
	defer unlock()
	log := logger.Get().With(zap.String("owner_id", ownerID))

	session, err := s.load(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if err := session.PrepareFinish(); err != nil {
		return 0, err
	}

	ids := session.QueueIDs()
	deleteQueue := func(ctx context.Context) error {
		return s.quizRepo.DeleteByIDs(ctx, ownerID, ids)
	}
	if s.txManager != nil {
		err = s.txManager.WithTransaction(ctx, deleteQueue)
	} else {
		err = deleteQueue(ctx)
	}
	if err != nil {
		log.Error("Failed to delete finished quizzes", zap.Strings("quiz_ids", ids), zap.Error(err))
		return 0, asPersistenceError("failed to delete finished quizzes", err)
	}

	if err := s.sessions.Delete(ctx, ownerID); err != nil {
		log.Warn("Failed to delete finished grading session", zap.Error(err))
	}
	log.Info("Grading session finished", zap.Int("deleted", len(ids)))
	return len(ids), nil
}

func (s *gradingService) load(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	session, err := s.sessions.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.NewNotFoundError("no grading session in progress")
	}
	return session, nil
}

// asPersistenceError keeps existing domain errors and wraps anything else.
func asPersistenceError(message string, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewPersistenceError(message, err)
}
