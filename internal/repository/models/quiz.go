package models

import "time"

// Quiz is a row of the quizzes table. Document holds a QuizDocument as JSON.
type Quiz struct {
	ID        string    `db:"ID"`
	UserID    string    `db:"USER_ID"`
	Document  string    `db:"DOCUMENT"`
	CreatedAt time.Time `db:"CREATED_AT"`
}

// QuizDocument is the stored shape of a quiz, keyed question1..question5.
type QuizDocument struct {
	QuizKey      string                       `json:"quizKey"`
	UserID       string                       `json:"userId"`
	Questions    map[string]string            `json:"questions"`
	Answers      map[string]string            `json:"answers"`
	WrongAnswers map[string]map[string]string `json:"wrongAnswers"`
}
