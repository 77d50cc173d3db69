package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned on login when email or password is
	// wrong. Intentionally identical for both cases.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrDuplicateEmail is returned when registering an email that exists.
	ErrDuplicateEmail = errors.New("User with this email already exists")
	// ErrDuplicateSlug is returned when an article name collides.
	ErrDuplicateSlug = errors.New("Article with this name already exists")
	// ErrUserNotFound is returned when a user lookup fails.
	ErrUserNotFound = errors.New("User not found")
	// ErrArticleNotFound is returned when an article lookup fails.
	ErrArticleNotFound = errors.New("Article not found")
	// ErrArticleNotAvailable is returned when a non-published article is
	// requested without sufficient privileges.
	ErrArticleNotAvailable = errors.New("Article not available")
	// ErrNotArticleOwner is returned when the caller may not modify an article.
	ErrNotArticleOwner = errors.New("Not authorized to update this article")
	// ErrCannotDelete is returned when the caller may not delete an article.
	ErrCannotDelete = errors.New("Not authorized to delete this article")
)

// ValidationError carries a user-facing message about malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with the given message.
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// StatusFor maps a domain error to an HTTP status code and user-facing
// message. Unexpected errors map to a generic 500; internal detail never
// reaches the client.
func StatusFor(err error) (int, string) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}
	switch {
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateSlug):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrArticleNotAvailable), errors.Is(err, ErrNotArticleOwner), errors.Is(err, ErrCannotDelete):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrArticleNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
