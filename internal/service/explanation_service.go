package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"conceptme/internal/cache"
	"conceptme/internal/domain"
	"conceptme/internal/logger"
	"conceptme/internal/metrics"
	"conceptme/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ExplanationService turns a topic and audience age into an explanation,
// follow-up topics and a persisted quiz.
type ExplanationService interface {
	Generate(ctx context.Context, ownerID, topic string, audienceAge int) (*domain.ExplanationResult, error)
}

type explanationService struct {
	generator domain.ExplanationGenerator
	quizRepo  domain.QuizRepository
	limiter   *OwnerRateLimiter
	timeout   time.Duration
	group     singleflight.Group
}

// NewExplanationService creates the pipeline. limiter may be nil; a zero timeout
// leaves the upstream call bounded only by ctx.
func NewExplanationService(
	generator domain.ExplanationGenerator,
	quizRepo domain.QuizRepository,
	limiter *OwnerRateLimiter,
	timeout time.Duration,
) ExplanationService {
	return &explanationService{
		generator: generator,
		quizRepo:  quizRepo,
		limiter:   limiter,
		timeout:   timeout,
	}
}

// Generate validates before any upstream call. Identical requests from the same
// owner that overlap in time share one upstream call and one saved quiz.
func (s *explanationService) Generate(ctx context.Context, ownerID, topic string, audienceAge int) (*domain.ExplanationResult, error) {
	req, err := domain.NewExplanationRequest(topic, audienceAge)
	if err != nil {
		recordOutcome(err)
		return nil, err
	}
	if ownerID == "" {
		return nil, domain.NewUnauthorizedError("owner is required")
	}

	key := cache.GenerateCacheKey("explanation", "request", ownerID,
		strings.ToLower(req.Topic), strconv.Itoa(req.AudienceAge))
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.generate(ctx, ownerID, req)
	})
	if shared {
		logger.Get().Debug("Collapsed duplicate explanation request", zap.String("owner_id", ownerID), zap.String("topic", req.Topic))
	}
	if err != nil {
		return nil, err
	}
	return v.(*domain.ExplanationResult), nil
}

func (s *explanationService) generate(ctx context.Context, ownerID string, req domain.ExplanationRequest) (*domain.ExplanationResult, error) {
	log := logger.Get().With(zap.String("owner_id", ownerID), zap.String("topic", req.Topic), zap.Int("age", req.AudienceAge))

	if s.limiter != nil && !s.limiter.Allow(ownerID) {
		err := domain.NewRateLimitedError("too many explanation requests, try again shortly")
		recordOutcome(err)
		return nil, err
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	gen, err := s.generator.Generate(callCtx, req.Topic, req.AudienceAge)
	if err != nil {
		var domainErr *domain.DomainError
		if !errors.As(err, &domainErr) {
			err = domain.NewUpstreamError("completion request failed", err)
		}
		log.Warn("Explanation generation failed", zap.Error(err))
		recordOutcome(err)
		return nil, err
	}

	quiz := domain.NewQuizRecord(util.NewQuizID(), ownerID, gen)
	result := &domain.ExplanationResult{
		Explanation:    gen.Explanation,
		FollowUpTopics: gen.FollowUpTopics,
		Quiz:           quiz,
	}

	// The quiz is a side artifact: a failed save is logged and reported, never fatal.
	if err := s.quizRepo.Save(ctx, quiz); err != nil {
		metrics.QuizSaveFailures.Inc()
		log.Error("Failed to save generated quiz", zap.String("quiz_id", quiz.ID), zap.Error(err))
	} else {
		result.QuizSaved = true
	}

	recordOutcome(nil)
	log.Info("Explanation generated", zap.String("quiz_id", quiz.ID), zap.Bool("quiz_saved", result.QuizSaved))
	return result, nil
}

func recordOutcome(err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(domain.CodeInternal)
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			outcome = string(domainErr.Code)
		}
	}
	metrics.ExplanationOutcomes.WithLabelValues(outcome).Inc()
}
