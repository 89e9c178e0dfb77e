package domain

import (
	"context"
	"sort"
	"time"
)

// QuizRecord is a persisted 5-question multiple-choice quiz owned by one user.
type QuizRecord struct {
	ID             string
	OwnerID        string
	Questions      [QuestionsPerQuiz]string
	CorrectAnswers [QuestionsPerQuiz]string
	DecoyAnswers   [QuestionsPerQuiz][DecoysPerQuestion]string
	CreatedAt      time.Time
}

// NewQuizRecord creates a quiz from a generated explanation.
func NewQuizRecord(id, ownerID string, gen *GeneratedExplanation) *QuizRecord {
	return &QuizRecord{
		ID:             id,
		OwnerID:        ownerID,
		Questions:      gen.Questions,
		CorrectAnswers: gen.CorrectAnswers,
		DecoyAnswers:   gen.DecoyAnswers,
		CreatedAt:      time.Now(),
	}
}

// Validate validates the quiz
func (q *QuizRecord) Validate() error {
	if q.ID == "" {
		return NewValidationError("quiz id is required")
	}
	if q.OwnerID == "" {
		return NewValidationError("quiz owner is required")
	}
	return nil
}

// Options returns the answer options for question i, correct answer included, in sorted order.
func (q *QuizRecord) Options(i int) []string {
	if i < 0 || i >= QuestionsPerQuiz {
		return nil
	}
	opts := make([]string, 0, DecoysPerQuestion+1)
	opts = append(opts, q.CorrectAnswers[i])
	opts = append(opts, q.DecoyAnswers[i][:]...)
	sort.Strings(opts)
	return opts
}

// Score counts the selections that exactly match the correct answer.
// Unanswered questions and empty correct answers never match.
func (q *QuizRecord) Score(selections map[int]string) int {
	score := 0
	for i := 0; i < QuestionsPerQuiz; i++ {
		selected, ok := selections[i]
		if !ok || q.CorrectAnswers[i] == "" {
			continue
		}
		if selected == q.CorrectAnswers[i] {
			score++
		}
	}
	return score
}

// QuizRepository defines the interface for quiz persistence.
type QuizRepository interface {
	Save(ctx context.Context, quiz *QuizRecord) error
	// ListByOwner returns the owner's quizzes in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]*QuizRecord, error)
	DeleteByIDs(ctx context.Context, ownerID string, ids []string) error
}
