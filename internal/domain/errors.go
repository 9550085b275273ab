package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds shared by every layer of the client.
var (
	ErrValidation   = errors.New("validation error")
	ErrAuthRequired = errors.New("authentication required")
	ErrNetwork      = errors.New("network error")
	ErrServer       = errors.New("server error")
	ErrNotFound     = errors.New("not found")
	ErrDecode       = errors.New("decode error")
	ErrIndex        = errors.New("index out of range")
	ErrSuperseded   = errors.New("superseded by a newer request")
)

// NetworkMessage is shown whenever no response was received from the API.
const NetworkMessage = "Network error. Please try again later."

// ValidationError reports bad local input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// APIError describes a failed call against the remote API. Kind is one of
// ErrNetwork, ErrServer or ErrNotFound.
type APIError struct {
	Kind    error
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Status > 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IndexError reports an ingredient index outside the current set.
func IndexError(index, length int) error {
	return fmt.Errorf("%w: index %d, length %d", ErrIndex, index, length)
}

// UserMessage converts an error into the text displayed to the user.
// Server-supplied messages win; fallback covers server failures without one.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	switch {
	case errors.Is(err, ErrAuthRequired):
		return "Please log in to continue."
	case errors.Is(err, ErrIndex):
		return "That ingredient is no longer in the list."
	case errors.Is(err, ErrNetwork):
		return NetworkMessage
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNotFound) {
		return "Recipe not found."
	}
	return fallback
}
