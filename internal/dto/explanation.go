package dto

import "conceptme/internal/domain"

// ExplanationRequest asks for an explanation of topic pitched at age.
type ExplanationRequest struct {
	Topic string `json:"topic"`
	Age   int    `json:"age"`
}

// ExplanationResponse carries the explanation and the quiz generated with it.
// QuizSaved is false when the quiz could not be stored.
type ExplanationResponse struct {
	Explanation    string        `json:"explanation"`
	FollowUpTopics []string      `json:"follow_up_topics"`
	QuizID         string        `json:"quiz_id,omitempty"`
	QuizSaved      bool          `json:"quiz_saved"`
	Quiz           *QuizResponse `json:"quiz,omitempty"`
}

func NewExplanationResponse(result *domain.ExplanationResult) ExplanationResponse {
	resp := ExplanationResponse{
		Explanation:    result.Explanation,
		FollowUpTopics: result.FollowUpTopics,
		QuizSaved:      result.QuizSaved,
	}
	if result.Quiz != nil {
		quiz := NewQuizResponse(result.Quiz)
		resp.Quiz = &quiz
		if result.QuizSaved {
			resp.QuizID = result.Quiz.ID
		}
	}
	return resp
}
