package service

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorCodeValidation   ErrorCode = "validation"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeForbidden    ErrorCode = "forbidden"
	ErrorCodeConflict     ErrorCode = "conflict"
	ErrorCodeNotFound     ErrorCode = "not_found"
	ErrorCodeInternal     ErrorCode = "internal"
)

// ServiceError is an error the HTTP layer maps onto a status code
type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewServiceError(code ErrorCode, message string) error {
	return &ServiceError{Code: code, Message: message}
}

func NewValidationError(message string) error {
	return NewServiceError(ErrorCodeValidation, message)
}

func NewUnauthorizedError(message string) error {
	return NewServiceError(ErrorCodeUnauthorized, message)
}

func NewForbiddenError(message string) error {
	return NewServiceError(ErrorCodeForbidden, message)
}

func NewConflictError(message string) error {
	return NewServiceError(ErrorCodeConflict, message)
}

func NewNotFoundError(message string) error {
	return NewServiceError(ErrorCodeNotFound, message)
}

func NewInternalError(message string) error {
	return NewServiceError(ErrorCodeInternal, message)
}

func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

var (
	ErrRecipeNotFound     = NewNotFoundError("recipe not found")
	ErrCollectionNotFound = NewNotFoundError("collection not found")
	ErrUserNotFound       = NewNotFoundError("user not found")
	ErrInvalidCredentials = NewUnauthorizedError("invalid credentials")
	ErrInvalidToken       = NewUnauthorizedError("invalid token")
	ErrUsernameTaken      = NewConflictError("username already exists")
)

// RowError reports a formset row that does not belong to the record being
// edited. The handler attaches it to the row and re-renders the form.
type RowError struct {
	Formset string
	Index   int
	Field   string
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s-%d-%s: %s", e.Formset, e.Index, e.Field, e.Message)
}
