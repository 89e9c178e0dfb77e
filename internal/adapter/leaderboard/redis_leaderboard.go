package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"conceptme/internal/cache"
	"conceptme/internal/domain"

	"github.com/redis/go-redis/v9"
)

// foldScript sets the fold marker and increments the total in one step.
// KEYS[1] fold marker, KEYS[2] sorted set; ARGV delta, owner, marker ttl seconds.
var foldScript = redis.NewScript(`
local set
if tonumber(ARGV[3]) > 0 then
	set = redis.call('SET', KEYS[1], '1', 'NX', 'EX', ARGV[3])
else
	set = redis.call('SET', KEYS[1], '1', 'NX')
end
if set then
	return {1, redis.call('ZINCRBY', KEYS[2], ARGV[1], ARGV[2])}
end
return {0, redis.call('ZSCORE', KEYS[2], ARGV[2]) or '0'}
`)

// RedisLeaderboard keeps cumulative scores in one sorted set.
// Members are owner ids and scores are the cumulative totals.
type RedisLeaderboard struct {
	client  redis.Cmdable
	key     string
	foldTTL time.Duration
}

// NewRedisLeaderboard creates the leaderboard. Fold markers expire after
// foldTTL, which should be at least the grading session lifetime; zero keeps them.
func NewRedisLeaderboard(client redis.Cmdable, foldTTL time.Duration) *RedisLeaderboard {
	return &RedisLeaderboard{client: client, key: cache.LeaderboardKey(), foldTTL: foldTTL}
}

var _ domain.Leaderboard = (*RedisLeaderboard)(nil)

// AddScore increments with ZINCRBY, which creates the member when absent.
// The increment only happens for the caller that sets the fold marker.
func (l *RedisLeaderboard) AddScore(ctx context.Context, ownerID, foldKey string, delta int) (int, bool, error) {
	if delta < 0 {
		return 0, false, domain.NewValidationError("score delta must not be negative")
	}
	if foldKey == "" {
		return 0, false, domain.NewValidationError("fold key is required")
	}
	keys := []string{cache.LeaderboardFoldKey(ownerID, foldKey), l.key}
	reply, err := foldScript.Run(ctx, l.client, keys, delta, ownerID, int64(l.foldTTL/time.Second)).Slice()
	if err != nil {
		return 0, false, fmt.Errorf("fold score %s: %w", ownerID, err)
	}
	if len(reply) != 2 {
		return 0, false, fmt.Errorf("fold score %s: unexpected reply %v", ownerID, reply)
	}
	applied, _ := reply[0].(int64)
	raw, _ := reply[1].(string)
	total, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("fold score %s: parse total %q: %w", ownerID, raw, err)
	}
	return int(total), applied == 1, nil
}

func (l *RedisLeaderboard) Score(ctx context.Context, ownerID string) (int, error) {
	score, err := l.client.ZScore(ctx, l.key, ownerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("zscore %s: %w", ownerID, err)
	}
	return int(score), nil
}

// Top returns the highest totals first. DisplayName is left empty for the caller to fill.
func (l *RedisLeaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	members, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		ownerID, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			OwnerID:         ownerID,
			CumulativeScore: int(m.Score),
		})
	}
	return entries, nil
}
