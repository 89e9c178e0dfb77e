package validation

import (
	"testing"

	"conceptme/internal/util"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestValidator_ValidateExplanationRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateExplanationRequest("Photosynthesis", 10))
	assert.Empty(t, v.ValidateExplanationRequest("Tides", 5))
	assert.Empty(t, v.ValidateExplanationRequest("Tides", 25))

	errs := v.ValidateExplanationRequest("  ", 4)
	assert.Len(t, errs, 2)
	assert.Equal(t, "topic", errs[0].Field)
	assert.Equal(t, "age", errs[1].Field)
	assert.Contains(t, errs.Error(), "age: must be between 5 and 25")
}

func TestValidator_ValidateSignUpRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateSignUpRequest("kid@example.com", "secret", "secret"))

	errs := v.ValidateSignUpRequest("not-an-email", "abc", "abd")
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"email", "password", "password_confirm"}, fields)
}

func TestValidator_ValidateAnswerRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateAnswerRequest(intPtr(0), "Sunlight"))
	assert.Empty(t, v.ValidateAnswerRequest(intPtr(4), ""))
	assert.Len(t, v.ValidateAnswerRequest(nil, "Sunlight"), 1)
	assert.Len(t, v.ValidateAnswerRequest(intPtr(5), "Sunlight"), 1)
	assert.Len(t, v.ValidateAnswerRequest(intPtr(-1), "Sunlight"), 1)
}

func TestValidator_ValidateNoteRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateNoteRequest("Tides", "The moon pulls the sea."))
	assert.Len(t, v.ValidateNoteRequest("", "body"), 1)
	assert.Len(t, v.ValidateNoteRequest("two\nlines", "body"), 1)
}

func TestValidator_ValidateRecordID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateRecordID("id", "note", util.NewNoteID()))
	assert.Len(t, v.ValidateRecordID("id", "note", util.NewQuizID()), 1)
	assert.Len(t, v.ValidateRecordID("id", "note", "note_123"), 1)
	assert.Len(t, v.ValidateRecordID("id", "note", ""), 1)
}

func TestValidator_ParseLimit(t *testing.T) {
	v := NewValidator()

	n, errs := v.ParseLimit("", 10, 100)
	assert.Empty(t, errs)
	assert.Equal(t, 10, n)

	n, errs = v.ParseLimit("25", 10, 100)
	assert.Empty(t, errs)
	assert.Equal(t, 25, n)

	_, errs = v.ParseLimit("abc", 10, 100)
	assert.Len(t, errs, 1)
	_, errs = v.ParseLimit("0", 10, 100)
	assert.Len(t, errs, 1)
	_, errs = v.ParseLimit("101", 10, 100)
	assert.Len(t, errs, 1)
}
