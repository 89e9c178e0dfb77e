package repository

import (
	"context"
	"fmt"

	"conceptme/internal/domain"
	"conceptme/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// SQLLeaderboard keeps cumulative scores in the users.score column.
// score_folds records every applied fold key.
type SQLLeaderboard struct {
	db        *sqlx.DB
	txManager domain.TransactionManager
}

func NewSQLLeaderboard(db *sqlx.DB) domain.Leaderboard {
	return &SQLLeaderboard{db: db, txManager: NewTransactionManagerAdapter(db)}
}

// AddScore records the fold key and increments the owner's score in one
// transaction, creating the user row if needed. A concurrent insert of the same
// key waits on the primary key and then fails with ORA-00001, so only one
// caller increments.
func (l *SQLLeaderboard) AddScore(ctx context.Context, ownerID, foldKey string, delta int) (int, bool, error) {
	if delta < 0 {
		return 0, false, domain.NewValidationError("score delta must not be negative")
	}
	if foldKey == "" {
		return 0, false, domain.NewValidationError("fold key is required")
	}

	applied := false
	err := l.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, l.db)
		insert := `INSERT INTO score_folds (user_id, fold_key, created_at) VALUES (:1, :2, SYSTIMESTAMP)`
		if _, err := exec.ExecContext(ctx, insert, ownerID, foldKey); err != nil {
			if isUniqueViolation(err) {
				return nil
			}
			return fmt.Errorf("failed to record score fold for user %s: %w", ownerID, err)
		}
		merge := `MERGE INTO users u
USING (SELECT :1 AS id, :2 AS delta FROM dual) s
ON (u.id = s.id)
WHEN MATCHED THEN UPDATE SET u.score = u.score + s.delta, u.updated_at = SYSTIMESTAMP
WHEN NOT MATCHED THEN INSERT (id, email, password_hash, score, created_at, updated_at)
VALUES (s.id, s.id, '-', s.delta, SYSTIMESTAMP, SYSTIMESTAMP)`
		if _, err := exec.ExecContext(ctx, merge, ownerID, delta); err != nil {
			return fmt.Errorf("failed to add score for user %s: %w", ownerID, err)
		}
		applied = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	total, err := l.Score(ctx, ownerID)
	if err != nil {
		return 0, applied, err
	}
	return total, applied, nil
}

func (l *SQLLeaderboard) Score(ctx context.Context, ownerID string) (int, error) {
	var score int64
	query := `SELECT NVL(MAX(score), 0) FROM users WHERE id = :1`
	if err := GetExecutor(ctx, l.db).GetContext(ctx, &score, query, ownerID); err != nil {
		return 0, fmt.Errorf("failed to read score for user %s: %w", ownerID, err)
	}
	return int(score), nil
}

func (l *SQLLeaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	var rows []models.UserScore
	query := `SELECT id, name, score FROM users ORDER BY score DESC, id FETCH FIRST :1 ROWS ONLY`
	if err := GetExecutor(ctx, l.db).SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			OwnerID:         row.ID,
			DisplayName:     row.Name.String,
			CumulativeScore: int(row.Score),
		})
	}
	return entries, nil
}
