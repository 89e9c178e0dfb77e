package dto

import (
	"time"

	"conceptme/internal/domain"
)

// QuestionResponse is one question with its shuffled-by-sort options.
// CorrectAnswer is only filled once the quiz has been graded.
type QuestionResponse struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      string   `json:"selected,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

// QuizResponse represents a quiz in the API response
type QuizResponse struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Questions []QuestionResponse `json:"questions"`
}

// QuizQueueResponse lists the outstanding quizzes of the caller.
type QuizQueueResponse struct {
	Quizzes []QuizResponse `json:"quizzes"`
	Total   int            `json:"total"`
}

// GradingSessionResponse describes the grading session of the caller.
type GradingSessionResponse struct {
	State        string        `json:"state"`
	CurrentIndex int           `json:"current_index"`
	Total        int           `json:"total"`
	IsLast       bool          `json:"is_last"`
	Score        *int          `json:"score,omitempty"`
	Quiz         *QuizResponse `json:"quiz,omitempty"`
}

// SelectAnswerRequest picks an option for one question of the current quiz.
type SelectAnswerRequest struct {
	QuestionIndex *int   `json:"question_index"`
	Answer        string `json:"answer"`
}

type SubmitResponse struct {
	Score           int  `json:"score"`
	MaxScore        int  `json:"max_score"`
	AlreadyGraded   bool `json:"already_graded"`
	CumulativeScore *int `json:"cumulative_score,omitempty"`
}

type FinishResponse struct {
	Deleted int `json:"deleted"`
}

// NewQuizResponse renders quiz without revealing correct answers.
func NewQuizResponse(quiz *domain.QuizRecord) QuizResponse {
	return newQuizResponse(quiz, nil, false)
}

func newQuizResponse(quiz *domain.QuizRecord, selections map[int]string, reveal bool) QuizResponse {
	questions := make([]QuestionResponse, 0, domain.QuestionsPerQuiz)
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		q := QuestionResponse{
			Index:    i,
			Question: quiz.Questions[i],
			Options:  quiz.Options(i),
			Selected: selections[i],
		}
		if reveal {
			q.CorrectAnswer = quiz.CorrectAnswers[i]
		}
		questions = append(questions, q)
	}
	return QuizResponse{ID: quiz.ID, CreatedAt: quiz.CreatedAt, Questions: questions}
}

func NewQuizQueueResponse(quizzes []*domain.QuizRecord) QuizQueueResponse {
	resp := QuizQueueResponse{Quizzes: make([]QuizResponse, 0, len(quizzes)), Total: len(quizzes)}
	for _, q := range quizzes {
		resp.Quizzes = append(resp.Quizzes, NewQuizResponse(q))
	}
	return resp
}

// NewGradingSessionResponse reveals correct answers and the score only after grading.
func NewGradingSessionResponse(session *domain.GradingSession) GradingSessionResponse {
	resp := GradingSessionResponse{
		State:        string(session.State),
		CurrentIndex: session.CurrentIndex,
		Total:        len(session.Queue),
	}
	quiz := session.Current()
	if quiz == nil {
		return resp
	}
	graded := session.State == domain.StateGraded
	qr := newQuizResponse(quiz, session.Selections, graded)
	resp.Quiz = &qr
	resp.IsLast = session.IsLast()
	if graded {
		score := session.Score
		resp.Score = &score
	}
	return resp
}
