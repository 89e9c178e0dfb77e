package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"conceptme/internal/cache"
	"conceptme/internal/domain"
	"conceptme/internal/logger"

	"go.uber.org/zap"
)

// NewGradingSessionStore stores sessions in cache as JSON with the given TTL.
// A nil cache falls back to an in-process store.
func NewGradingSessionStore(c domain.Cache, ttl time.Duration) domain.GradingSessionStore {
	if c == nil {
		logger.Get().Warn("GradingSessionStore initialized with nil cache. Sessions are kept in memory.")
		return NewMemorySessionStore()
	}
	return &cacheSessionStore{cache: c, ttl: ttl}
}

type cacheSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

func (s *cacheSessionStore) Get(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	key := cache.GradingSessionKey(ownerID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, domain.NewPersistenceError("failed to load grading session", err)
	}

	var session domain.GradingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		// A corrupt entry is dropped so the owner can start over.
		logger.Get().Error("Failed to unmarshal grading session from cache", zap.Error(err), zap.String("key", key))
		_ = s.cache.Delete(ctx, key)
		return nil, nil
	}
	return &session, nil
}

func (s *cacheSessionStore) Put(ctx context.Context, session *domain.GradingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to marshal grading session", err)
	}
	if err := s.cache.Set(ctx, cache.GradingSessionKey(session.OwnerID), string(data), s.ttl); err != nil {
		return domain.NewPersistenceError("failed to save grading session", err)
	}
	return nil
}

func (s *cacheSessionStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.cache.Delete(ctx, cache.GradingSessionKey(ownerID)); err != nil {
		return domain.NewPersistenceError("failed to delete grading session", err)
	}
	return nil
}

// memorySessionStore keeps encoded sessions so callers never share a pointer.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func NewMemorySessionStore() domain.GradingSessionStore {
	return &memorySessionStore{sessions: make(map[string][]byte)}
}

func (s *memorySessionStore) Get(ctx context.Context, ownerID string) (*domain.GradingSession, error) {
	s.mu.Lock()
	data, ok := s.sessions[ownerID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var session domain.GradingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, domain.NewInternalError("failed to unmarshal grading session", err)
	}
	return &session, nil
}

func (s *memorySessionStore) Put(ctx context.Context, session *domain.GradingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to marshal grading session", err)
	}
	s.mu.Lock()
	s.sessions[session.OwnerID] = data
	s.mu.Unlock()
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	delete(s.sessions, ownerID)
	s.mu.Unlock()
	return nil
}
