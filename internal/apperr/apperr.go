package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind string

const (
	KindCommand    Kind = "COMMAND"
	KindStorage    Kind = "STORAGE"
	KindValidation Kind = "VALIDATION"
	KindConfig     Kind = "CONFIG"
	KindNotFound   Kind = "NOT_FOUND"
)

// ErrNotFound matches every NOT_FOUND error via errors.Is.
var ErrNotFound = errors.New("not found")

// Process exit codes reported by ExitCode.
const (
	ExitOK         = 0
	ExitCommand    = 1
	ExitValidation = 2
	ExitConfig     = 3
	ExitStorage    = 4
)

// Error is the application error type.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports NOT_FOUND errors as ErrNotFound.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetail attaches a structured detail.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewCommandError creates an error for a command that could not complete.
func NewCommandError(message string) *Error {
	return &Error{Kind: KindCommand, Message: message}
}

// NewStorageError creates an error for a failed storage operation.
func NewStorageError(operation string, err error) *Error {
	return &Error{
		Kind:    KindStorage,
		Message: fmt.Sprintf("storage operation %q failed", operation),
		Cause:   err,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

// NewNotFoundError creates a not found error for resource.
func NewNotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or "" when
// err carries none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return ""
}

// IsKind reports whether any *Error in err's chain has kind k.
func IsKind(err error, k Kind) bool {
	for err != nil {
		var ae *Error
		if !errors.As(err, &ae) {
			return false
		}
		if ae.Kind == k {
			return true
		}
		err = ae.Cause
	}
	return false
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case KindValidation:
		return ExitValidation
	case KindConfig:
		return ExitConfig
	case KindStorage, KindNotFound:
		return ExitStorage
	default:
		return ExitCommand
	}
}
