package domain

import (
	"context"
	"fmt"
	"time"
)

// GradingState is the state of a per-user grading session.
type GradingState string

const (
	// StatePresenting accepts answer selections for the current quiz.
	StatePresenting GradingState = "presenting"
	// StateGraded freezes the selections and exposes the score.
	StateGraded GradingState = "graded"
	// StateCompleted is reached when the queue is exhausted.
	StateCompleted GradingState = "completed"
)

// GradingSession walks a user through their outstanding quizzes one at a time.
type GradingSession struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	Queue        []*QuizRecord  `json:"queue"`
	CurrentIndex int            `json:"current_index"`
	State        GradingState   `json:"state"`
	Selections   map[int]string `json:"selections"`
	Score        int            `json:"score"`
	StartedAt    time.Time      `json:"started_at"`
}

// NewGradingSession starts a session over queue. An empty queue starts Completed.
func NewGradingSession(ownerID string, queue []*QuizRecord) *GradingSession {
	s := &GradingSession{
		OwnerID:    ownerID,
		Queue:      queue,
		State:      StatePresenting,
		Selections: make(map[int]string),
		StartedAt:  time.Now(),
	}
	if len(queue) == 0 {
		s.State = StateCompleted
	}
	return s
}

// Current returns the quiz being presented or graded, or nil once completed.
func (s *GradingSession) Current() *QuizRecord {
	if s.State == StateCompleted || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Queue) {
		return nil
	}
	return s.Queue[s.CurrentIndex]
}

// IsLast reports whether the current quiz is the final one in the queue.
func (s *GradingSession) IsLast() bool {
	return s.CurrentIndex == len(s.Queue)-1
}

// SelectAnswer records the choice for a question, overwriting any earlier one.
func (s *GradingSession) SelectAnswer(questionIndex int, answer string) error {
	if s.State != StatePresenting {
		return NewInvalidStateError(fmt.Sprintf("cannot select an answer while %s", s.State))
	}
	if questionIndex < 0 || questionIndex >= QuestionsPerQuiz {
		return NewValidationError(fmt.Sprintf("question index must be between 0 and %d", QuestionsPerQuiz-1)).
			WithContext("question_index", questionIndex)
	}
	if s.Selections == nil {
		s.Selections = make(map[int]string)
	}
	s.Selections[questionIndex] = answer
	return nil
}

// Grade computes the score of the current quiz without changing state.
// In Graded it returns the stored score and alreadyGraded=true.
func (s *GradingSession) Grade() (score int, alreadyGraded bool, err error) {
	switch s.State {
	case StateGraded:
		return s.Score, true, nil
	case StatePresenting:
		quiz := s.Current()
		if quiz == nil {
			return 0, false, NewInvalidStateError("no quiz to grade")
		}
		return quiz.Score(s.Selections), false, nil
	default:
		return 0, false, NewInvalidStateError(fmt.Sprintf("cannot submit while %s", s.State))
	}
}

// FoldKey identifies the score of the current quiz within this session.
// A leaderboard applies each fold key at most once.
func (s *GradingSession) FoldKey() string {
	quiz := s.Current()
	if quiz == nil {
		return ""
	}
	return s.ID + ":" + quiz.ID
}

// MarkGraded freezes the current quiz with score.
func (s *GradingSession) MarkGraded(score int) {
	s.State = StateGraded
	s.Score = score
}

// Next clears the grading state and moves to the next quiz, or to Completed.
func (s *GradingSession) Next() error {
	if s.State != StateGraded {
		return NewInvalidStateError(fmt.Sprintf("cannot advance while %s", s.State))
	}
	s.Selections = make(map[int]string)
	s.Score = 0
	s.CurrentIndex++
	if s.CurrentIndex >= len(s.Queue) {
		s.State = StateCompleted
		return nil
	}
	s.State = StatePresenting
	return nil
}

// PrepareFinish checks that the session may be finished. Finishing from Graded
// on the last quiz completes the session.
func (s *GradingSession) PrepareFinish() error {
	switch {
	case s.State == StateCompleted:
		return nil
	case s.State == StateGraded && s.IsLast():
		s.State = StateCompleted
		return nil
	default:
		return NewInvalidStateError("quizzes remain to be graded")
	}
}

// QueueIDs returns the ids of every quiz loaded into the session.
func (s *GradingSession) QueueIDs() []string {
	ids := make([]string, 0, len(s.Queue))
	for _, q := range s.Queue {
		ids = append(ids, q.ID)
	}
	return ids
}

// GradingSessionStore persists grading sessions between requests.
type GradingSessionStore interface {
	// Get returns (nil, nil) when the owner has no session.
	Get(ctx context.Context, ownerID string) (*GradingSession, error)
	Put(ctx context.Context, session *GradingSession) error
	Delete(ctx context.Context, ownerID string) error
}
