package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"conceptme/internal/adapter"
	"conceptme/internal/adapter/leaderboard"
	"conceptme/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSharedRedisInstances builds two grading services that share one Redis,
// the way two API processes would.
func newSharedRedisInstances(t *testing.T) (GradingService, GradingService, domain.GradingSessionStore, *leaderboard.RedisLeaderboard) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryQuizRepository()
	seedQuizzes(t, repo, "user-1", "quiz_a")
	sessions := NewGradingSessionStore(adapter.NewRedisCacheAdapter(client), 30*time.Minute)
	board := leaderboard.NewRedisLeaderboard(client, time.Hour)

	first := NewGradingService(repo, sessions, board, nil)
	second := NewGradingService(repo, sessions, board, nil)
	return first, second, sessions, board
}

func selectAllCorrect(t *testing.T, svc GradingService) {
	t.Helper()
	for i, answer := range sampleGenerated().CorrectAnswers {
		_, err := svc.SelectAnswer(context.Background(), "user-1", i, answer)
		require.NoError(t, err)
	}
}

func TestGradingService_StaleSessionOnAnotherInstanceFoldsOnce(t *testing.T) {
	first, second, sessions, board := newSharedRedisInstances(t)
	ctx := context.Background()

	_, err := first.Start(ctx, "user-1")
	require.NoError(t, err)
	selectAllCorrect(t, first)

	stale, err := sessions.Get(ctx, "user-1")
	require.NoError(t, err)

	result, err := first.Submit(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, result.Score)
	assert.False(t, result.AlreadyGraded)

	// the other instance read the session before the first one stored Graded
	require.NoError(t, sessions.Put(ctx, stale))
	again, err := second.Submit(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Score)
	assert.True(t, again.AlreadyGraded)
	require.NotNil(t, again.CumulativeScore)
	assert.Equal(t, 5, *again.CumulativeScore)

	total, err := board.Score(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestGradingService_ConcurrentInstancesFoldOnce(t *testing.T) {
	first, second, _, board := newSharedRedisInstances(t)
	ctx := context.Background()

	_, err := first.Start(ctx, "user-1")
	require.NoError(t, err)
	selectAllCorrect(t, first)

	var wg sync.WaitGroup
	for _, svc := range []GradingService{first, second, first, second} {
		wg.Add(1)
		go func(svc GradingService) {
			defer wg.Done()
			result, err := svc.Submit(ctx, "user-1")
			if assert.NoError(t, err) {
				assert.Equal(t, 5, result.Score)
			}
		}(svc)
	}
	wg.Wait()

	total, err := board.Score(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestGradingService_RestartedSessionFoldsAgain(t *testing.T) {
	first, _, _, board := newSharedRedisInstances(t)
	ctx := context.Background()

	for round := 0; round < 2; round++ {
		_, err := first.Start(ctx, "user-1")
		require.NoError(t, err)
		selectAllCorrect(t, first)
		result, err := first.Submit(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, result.AlreadyGraded)
	}

	total, err := board.Score(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}
