package domain

import (
	"context"
	"fmt"
	"strings"
)

const (
	MinAudienceAge = 5
	MaxAudienceAge = 25

	QuestionsPerQuiz  = 5
	DecoysPerQuestion = 3
	MinFollowUpTopics = 4
	MaxFollowUpTopics = 5
)

// ExplanationRequest is what a user asks for: a topic pitched at an audience age.
type ExplanationRequest struct {
	Topic       string
	AudienceAge int
}

// NewExplanationRequest trims the topic and validates the request.
func NewExplanationRequest(topic string, audienceAge int) (ExplanationRequest, error) {
	req := ExplanationRequest{Topic: strings.TrimSpace(topic), AudienceAge: audienceAge}
	if err := req.Validate(); err != nil {
		return ExplanationRequest{}, err
	}
	return req, nil
}

// Validate validates the request
func (r ExplanationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return NewValidationError("topic is required")
	}
	if err := ValidateAge(r.AudienceAge); err != nil {
		return err
	}
	return nil
}

// ValidateAge checks an audience age against the supported range.
func ValidateAge(age int) error {
	if age < MinAudienceAge || age > MaxAudienceAge {
		return NewValidationError(fmt.Sprintf("age must be between %d and %d", MinAudienceAge, MaxAudienceAge)).
			WithContext("age", age)
	}
	return nil
}

// GeneratedExplanation is the decoded model reply. The array sizes carry the quiz arity.
type GeneratedExplanation struct {
	Explanation    string
	FollowUpTopics []string
	Questions      [QuestionsPerQuiz]string
	CorrectAnswers [QuestionsPerQuiz]string
	DecoyAnswers   [QuestionsPerQuiz][DecoysPerQuestion]string
}

// ExplanationGenerator produces an explanation, follow-up topics and a quiz for a topic.
// Implementations make exactly one upstream call per invocation.
type ExplanationGenerator interface {
	Generate(ctx context.Context, topic string, audienceAge int) (*GeneratedExplanation, error)
}

// ExplanationResult is returned to the caller of the pipeline.
// QuizSaved is false when the quiz could not be persisted; the explanation is still valid.
type ExplanationResult struct {
	Explanation    string
	FollowUpTopics []string
	Quiz           *QuizRecord
	QuizSaved      bool
}
