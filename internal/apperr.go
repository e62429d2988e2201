package internal

import (
	"errors"
	"net/http"
)

// Stable machine-checkable error codes surfaced to API clients.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeUnprocessable   = "UNPROCESSABLE_ENTITY"
	CodeSelfFollow      = "SELF_FOLLOW"
	CodeDuplicateFollow = "DUPLICATE_FOLLOW"
	CodeNotFollowing    = "NOT_FOLLOWING"
	CodeMissingField    = "MISSING_FIELD"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeInvalidOrdering = "INVALID_ORDERING"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError is the uniform business error carried from services to the API
// boundary. Every failure has a code, a human-readable message and an HTTP
// status; validation failures may attach per-field data.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
	HTTPStatus int            `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

func NewUnprocessable(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: http.StatusUnprocessableEntity}
}

func NewUnprocessableWithData(code, message string, data map[string]any) *AppError {
	return &AppError{Code: code, Message: message, Data: data, HTTPStatus: http.StatusUnprocessableEntity}
}

func NewInternalError(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError}
}

// AsAppError unwraps err into an *AppError, or nil if it is not one.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
