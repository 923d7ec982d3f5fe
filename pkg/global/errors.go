package global

import "errors"

// Error kinds. Every error returned by the service layer wraps one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// AppError carries a user-facing message alongside its kind.
type AppError struct {
	Kind    error
	Message string
	Field   string
	Code    string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

// Details converts the error into the response envelope's error list.
func (e *AppError) Details() []ValidationError {
	if e.Field == "" && e.Code == "" {
		return nil
	}
	return []ValidationError{{Field: e.Field, Message: e.Message, Code: e.Code}}
}

func NewValidationError(field, message string) *AppError {
	return &AppError{Kind: ErrValidation, Message: message, Field: field, Code: "validation_error"}
}

func NewNotFoundError(field, message string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: message, Field: field, Code: "not_found"}
}

func NewConflictError(field, message string) *AppError {
	return &AppError{Kind: ErrConflict, Message: message, Field: field, Code: "conflict"}
}

func NewInvalidStateError(field, message string) *AppError {
	return &AppError{Kind: ErrInvalidState, Message: message, Field: field, Code: "invalid_state"}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: ErrForbidden, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: ErrUnauthorized, Message: message}
}
