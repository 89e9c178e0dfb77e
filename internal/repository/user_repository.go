package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"conceptme/internal/domain"
	"conceptme/internal/repository/models"
	"conceptme/internal/util"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, password_hash, name, age, score, created_at, updated_at`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

// Create inserts a new user into the database.
func (r *sqlxUserRepository) Create(ctx context.Context, user *domain.UserProfile) error {
	m := fromDomainUser(user)
	query := `INSERT INTO users (` + userColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.Email, m.PasswordHash, m.Name, m.Age, m.Score, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		// unique email index
		if isUniqueViolation(err) {
			return domain.NewConflictError("email is already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = :1`, id)
}

func (r *sqlxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = :1`, strings.TrimSpace(email))
}

func (r *sqlxUserRepository) getOne(ctx context.Context, query string, arg string) (*domain.UserProfile, error) {
	var user models.User
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil, nil for not found, services can handle this
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&user), nil
}

// UpdateProfile writes the editable profile fields. The score column is never touched here.
func (r *sqlxUserRepository) UpdateProfile(ctx context.Context, user *domain.UserProfile) error {
	query := `UPDATE users SET name = :1, age = :2, updated_at = :3 WHERE id = :4`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		util.StringToNullString(user.Name), util.IntToNullInt64(user.Age), user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for user %s: %w", user.ID, err)
	}
	if affected == 0 {
		return domain.NewNotFoundError("user not found").WithContext("user_id", user.ID)
	}
	return nil
}

func (r *sqlxUserRepository) ListNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query, args := inClause(`SELECT id, name FROM users WHERE id IN (%s)`, ids)
	var rows []models.UserName
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list user names: %w", err)
	}
	for _, row := range rows {
		names[row.ID] = row.Name.String
	}
	return names, nil
}

// inClause expands %s in query into positional binds :1..:n for values.
func inClause(query string, values []string) (string, []interface{}) {
	binds := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		binds[i] = ":" + strconv.Itoa(i+1)
		args[i] = v
	}
	return fmt.Sprintf(query, strings.Join(binds, ", ")), args
}

func toDomainUser(m *models.User) *domain.UserProfile {
	if m == nil {
		return nil
	}
	return &domain.UserProfile{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name.String,
		Age:          int(m.Age.Int64),
		Score:        int(m.Score),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.UserProfile) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         util.StringToNullString(u.Name),
		Age:          util.IntToNullInt64(u.Age),
		Score:        int64(u.Score),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
