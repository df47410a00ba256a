package domain

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrDocumentTaken      = errors.New("document number already registered")
)

// Recovery errors
var (
	ErrInvalidRecoveryToken = errors.New("invalid or expired recovery token")
	ErrInvalidRecoveryCode  = errors.New("invalid or expired recovery code")
	ErrPasswordReused       = errors.New("new password must differ from the current one")
)

// Session credential errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenRevoked   = errors.New("token has been revoked")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Administration errors
var (
	ErrRoleDemotion    = errors.New("existing admins cannot be demoted to student")
	ErrRestoreConflict = errors.New("restore would duplicate email or document number")
	ErrUnauthorized    = errors.New("unauthorized access")
)

// ValidationError reports the first violated input rule. Validation is
// fail-fast: callers see exactly one violation per attempt.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is one of the uniqueness violations.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrDocumentTaken) ||
		errors.Is(err, ErrRestoreConflict)
}
