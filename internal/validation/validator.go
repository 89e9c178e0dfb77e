package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"conceptme/internal/domain"
)

const (
	maxTopicLength   = 200
	maxHeadingLength = 200
	maxNoteLength    = 3000
	maxAnswerLength  = 500
	maxNameLength    = 100
)

var (
	validULID  = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	validEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// FieldErrors is returned by handlers and rendered as a single 400 response.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func missing(field string) FieldError {
	return FieldError{Field: field, Message: "is required"}
}

func outOfRange(field string, value interface{}, min, max int) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max), Value: value}
}

func invalidFormat(field string, value interface{}) FieldError {
	return FieldError{Field: field, Message: "has an invalid format", Value: value}
}

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateExplanationRequest checks the request shape. Domain rules are applied again by the service.
func (v *Validator) ValidateExplanationRequest(topic string, age int) FieldErrors {
	var errs FieldErrors
	if strings.TrimSpace(topic) == "" {
		errs = append(errs, missing("topic"))
	} else if len(topic) > maxTopicLength {
		errs = append(errs, outOfRange("topic", len(topic), 1, maxTopicLength))
	}
	if age < domain.MinAudienceAge || age > domain.MaxAudienceAge {
		errs = append(errs, outOfRange("age", age, domain.MinAudienceAge, domain.MaxAudienceAge))
	}
	return errs
}

func (v *Validator) ValidateSignUpRequest(email, password, confirm string) FieldErrors {
	var errs FieldErrors
	if strings.TrimSpace(email) == "" {
		errs = append(errs, missing("email"))
	} else if !validEmail.MatchString(strings.TrimSpace(email)) {
		errs = append(errs, invalidFormat("email", email))
	}
	if len(password) < domain.MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", domain.MinPasswordLength)})
	}
	if password != confirm {
		errs = append(errs, FieldError{Field: "password_confirm", Message: "does not match password"})
	}
	return errs
}

func (v *Validator) ValidateLoginRequest(email, password string) FieldErrors {
	var errs FieldErrors
	if strings.TrimSpace(email) == "" {
		errs = append(errs, missing("email"))
	}
	if password == "" {
		errs = append(errs, missing("password"))
	}
	return errs
}

func (v *Validator) ValidateAnswerRequest(questionIndex *int, answer string) FieldErrors {
	var errs FieldErrors
	if questionIndex == nil {
		errs = append(errs, missing("question_index"))
	} else if *questionIndex < 0 || *questionIndex >= domain.QuestionsPerQuiz {
		errs = append(errs, outOfRange("question_index", *questionIndex, 0, domain.QuestionsPerQuiz-1))
	}
	if len(answer) > maxAnswerLength {
		errs = append(errs, outOfRange("answer", len(answer), 0, maxAnswerLength))
	}
	return errs
}

func (v *Validator) ValidateNoteRequest(heading, content string) FieldErrors {
	var errs FieldErrors
	if strings.TrimSpace(heading) == "" {
		errs = append(errs, missing("heading"))
	} else if len(heading) > maxHeadingLength || strings.Contains(heading, "\n") {
		errs = append(errs, invalidFormat("heading", heading))
	}
	if len(content) > maxNoteLength {
		errs = append(errs, outOfRange("content", len(content), 0, maxNoteLength))
	}
	return errs
}

func (v *Validator) ValidateProfileRequest(name string, age int) FieldErrors {
	var errs FieldErrors
	if strings.TrimSpace(name) == "" {
		errs = append(errs, missing("name"))
	} else if len(name) > maxNameLength {
		errs = append(errs, outOfRange("name", len(name), 1, maxNameLength))
	}
	if age < domain.MinAudienceAge || age > domain.MaxAudienceAge {
		errs = append(errs, outOfRange("age", age, domain.MinAudienceAge, domain.MaxAudienceAge))
	}
	return errs
}

// ValidateRecordID checks ids of the form <prefix>_<ULID>.
func (v *Validator) ValidateRecordID(field, prefix, id string) FieldErrors {
	if strings.TrimSpace(id) == "" {
		return FieldErrors{missing(field)}
	}
	if !isValidRecordID(prefix, id) {
		return FieldErrors{invalidFormat(field, id)}
	}
	return nil
}

// ParseLimit parses a positive limit no larger than max. Empty input yields def.
func (v *Validator) ParseLimit(raw string, def, max int) (int, FieldErrors) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, FieldErrors{invalidFormat("limit", raw)}
	}
	if n < 1 || n > max {
		return 0, FieldErrors{outOfRange("limit", n, 1, max)}
	}
	return n, nil
}

// isValidRecordID checks the prefix and the Crockford base32 ULID that follows it.
func isValidRecordID(prefix, id string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"_")
	if !ok {
		return false
	}
	return validULID.MatchString(rest)
}
