package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")

	ErrForbidden               = errors.New("access forbidden")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrInvalidToken            = errors.New("invalid token")
)

// ValidationError reports a client-fixable constraint violation: a bad field
// value, a reserved name, or a uniqueness conflict. Storage-level constraint
// violations are re-mapped to this type before leaving the core.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-scoped validation failure.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
