package transform

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MinContentLength is the minimum submitted content size in characters.
	MinContentLength = 10
	// MaxContentLength is the maximum submitted content size in characters.
	MaxContentLength = 5000
)

var validate = validator.New()

// contentPayload mirrors the submitted fields so all violations are collected
// in one pass.
type contentPayload struct {
	OriginalContent   string `validate:"required,min=10,max=5000"`
	OriginalWordCount int    `validate:"min=0"`
}

// ValidationError aggregates every field-level violation into one error whose
// message is the joined list.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// ValidateContent checks the submitted content and its derived word count.
// All violations are reported together rather than first-failure-only.
func ValidateContent(originalContent string, originalWordCount int) error {
	err := validate.Struct(contentPayload{
		OriginalContent:   originalContent,
		OriginalWordCount: originalWordCount,
	})
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	vErr := &ValidationError{}
	if !errors.As(err, &invalid) {
		vErr.Messages = append(vErr.Messages, "content is invalid")
		return vErr
	}

	for _, fe := range invalid {
		vErr.Messages = append(vErr.Messages, violationMessage(fe))
	}
	return vErr
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "OriginalContent":
		switch fe.Tag() {
		case "required":
			return "The content is required"
		case "min":
			return "The content must be at least 10 characters"
		case "max":
			return "The content cannot exceed 5000 characters"
		}
	case "OriginalWordCount":
		return "The original content word count cannot be less than 0"
	}
	return "content is invalid"
}
