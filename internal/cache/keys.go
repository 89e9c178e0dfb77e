package cache

import "strings"

const (
	GlobalKeyPrefix = "conceptme"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// GradingSessionKey is where an owner's grading session is cached.
func GradingSessionKey(ownerID string) string {
	return GenerateCacheKey("grading", "session", ownerID)
}

// LeaderboardKey is the sorted set holding cumulative scores.
func LeaderboardKey() string {
	return GenerateCacheKey("leaderboard", "score", "global")
}

// LeaderboardFoldKey marks a score that has already been added to the leaderboard.
func LeaderboardFoldKey(ownerID, foldKey string) string {
	return GenerateCacheKey("leaderboard", "fold", ownerID, foldKey)
}
