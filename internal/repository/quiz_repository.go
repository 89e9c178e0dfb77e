package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"conceptme/internal/domain"
	"conceptme/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter stores quizzes as JSON documents in the quizzes table.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new QuizDatabaseAdapter instance
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// Save inserts a quiz document.
func (a *QuizDatabaseAdapter) Save(ctx context.Context, quiz *domain.QuizRecord) error {
	row, err := fromDomainQuiz(quiz)
	if err != nil {
		return err
	}

	query := `INSERT INTO quizzes (id, user_id, document, created_at) VALUES (:1, :2, :3, :4)`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, row.ID, row.UserID, row.Document, row.CreatedAt); err != nil {
		return fmt.Errorf("failed to save quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// ListByOwner returns the owner's quizzes, oldest first.
func (a *QuizDatabaseAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*domain.QuizRecord, error) {
	var rows []models.Quiz
	query := `SELECT id, user_id, document, created_at FROM quizzes WHERE user_id = :1 ORDER BY created_at, id`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list quizzes for user %s: %w", ownerID, err)
	}

	quizzes := make([]*domain.QuizRecord, 0, len(rows))
	for i := range rows {
		quiz, err := toDomainQuiz(&rows[i])
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

// DeleteByIDs removes the given quizzes of one owner. Missing ids are ignored.
func (a *QuizDatabaseAdapter) DeleteByIDs(ctx context.Context, ownerID string, ids []string) error {
	exec := GetExecutor(ctx, a.db)
	query := `DELETE FROM quizzes WHERE user_id = :1 AND id = :2`
	for _, id := range ids {
		if _, err := exec.ExecContext(ctx, query, ownerID, id); err != nil {
			return fmt.Errorf("failed to delete quiz %s: %w", id, err)
		}
	}
	return nil
}

func questionKey(i int) string { return "question" + strconv.Itoa(i+1) }
func answerKey(i int) string   { return "answer" + strconv.Itoa(i+1) }
func wrongKey(j int) string    { return "wrongAnswer" + strconv.Itoa(j+1) }

func fromDomainQuiz(quiz *domain.QuizRecord) (*models.Quiz, error) {
	doc := models.QuizDocument{
		QuizKey:      quiz.ID,
		UserID:       quiz.OwnerID,
		Questions:    make(map[string]string, domain.QuestionsPerQuiz),
		Answers:      make(map[string]string, domain.QuestionsPerQuiz),
		WrongAnswers: make(map[string]map[string]string, domain.QuestionsPerQuiz),
	}
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		doc.Questions[questionKey(i)] = quiz.Questions[i]
		doc.Answers[answerKey(i)] = quiz.CorrectAnswers[i]
		wrong := make(map[string]string, domain.DecoysPerQuestion)
		for j := 0; j < domain.DecoysPerQuestion; j++ {
			wrong[wrongKey(j)] = quiz.DecoyAnswers[i][j]
		}
		doc.WrongAnswers[questionKey(i)] = wrong
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quiz %s: %w", quiz.ID, err)
	}
	return &models.Quiz{
		ID:        quiz.ID,
		UserID:    quiz.OwnerID,
		Document:  string(data),
		CreatedAt: quiz.CreatedAt,
	}, nil
}

func toDomainQuiz(row *models.Quiz) (*domain.QuizRecord, error) {
	var doc models.QuizDocument
	if err := json.Unmarshal([]byte(row.Document), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode quiz %s: %w", row.ID, err)
	}

	quiz := &domain.QuizRecord{
		ID:        row.ID,
		OwnerID:   row.UserID,
		CreatedAt: row.CreatedAt,
	}
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		quiz.Questions[i] = doc.Questions[questionKey(i)]
		quiz.CorrectAnswers[i] = doc.Answers[answerKey(i)]
		wrong := doc.WrongAnswers[questionKey(i)]
		for j := 0; j < domain.DecoysPerQuestion; j++ {
			quiz.DecoyAnswers[i][j] = wrong[wrongKey(j)]
		}
	}
	return quiz, nil
}
