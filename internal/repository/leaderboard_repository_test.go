package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLLeaderboard_AddScore(t *testing.T) {
	db, mock := setupTestDB(t)
	lb := NewSQLLeaderboard(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO score_folds (user_id, fold_key, created_at)`)).
		WithArgs("user-1", "s1:quiz_a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`MERGE INTO users u`)).
		WithArgs("user-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT NVL(MAX(score), 0) FROM users WHERE id = :1`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"SCORE"}).AddRow(8))

	total, applied, err := lb.AddScore(context.Background(), "user-1", "s1:quiz_a", 3)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 8, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLeaderboard_AddScoreFoldKeyAlreadyApplied(t *testing.T) {
	db, mock := setupTestDB(t)
	lb := NewSQLLeaderboard(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO score_folds`).
		WithArgs("user-1", "s1:quiz_a").
		WillReturnError(errors.New("ORA-00001: unique constraint (CONCEPTME.SCORE_FOLDS_PK) violated"))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT NVL(MAX(score), 0) FROM users WHERE id = :1`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"SCORE"}).AddRow(5))

	total, applied, err := lb.AddScore(context.Background(), "user-1", "s1:quiz_a", 5)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 5, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLeaderboard_AddScoreError(t *testing.T) {
	db, mock := setupTestDB(t)
	lb := NewSQLLeaderboard(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO score_folds`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`MERGE INTO users`).WillReturnError(errors.New("ORA-00060: deadlock detected"))
	mock.ExpectRollback()

	_, applied, err := lb.AddScore(context.Background(), "user-1", "s1:quiz_a", 1)
	assert.Error(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLeaderboard_AddScoreRejectsBadInput(t *testing.T) {
	db, _ := setupTestDB(t)
	lb := NewSQLLeaderboard(db)

	_, _, err := lb.AddScore(context.Background(), "user-1", "s1:quiz_a", -1)
	assert.Error(t, err)
	_, _, err = lb.AddScore(context.Background(), "user-1", "", 1)
	assert.Error(t, err)
}

func TestSQLLeaderboard_Top(t *testing.T) {
	db, mock := setupTestDB(t)
	lb := NewSQLLeaderboard(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, score FROM users ORDER BY score DESC, id FETCH FIRST :1 ROWS ONLY`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"ID", "NAME", "SCORE"}).
			AddRow("u2", "Bo", 12).
			AddRow("u1", nil, 4))

	entries, err := lb.Top(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bo", entries[0].DisplayName)
	assert.Equal(t, 12, entries[0].CumulativeScore)
	assert.Equal(t, "", entries[1].DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
