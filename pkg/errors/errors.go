package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidCursor = errors.New("invalid pagination cursor")
	ErrEmptyBundle   = errors.New("bundle contains no valid files")
	ErrPrecondition  = errors.New("precondition failed")
	ErrStorage       = errors.New("storage failure")
	ErrFilesystem    = errors.New("filesystem failure")
)

// AppError carries a stable machine code alongside a human message and the
// underlying cause. Unwrap keeps errors.Is working against the sentinels.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func InvalidInput(msg string) *AppError {
	return &AppError{Code: "INVALID_INPUT", Message: msg, Err: ErrInvalidInput}
}

func InvalidCursor(msg string) *AppError {
	return &AppError{Code: "INVALID_CURSOR", Message: msg, Err: ErrInvalidCursor}
}

func EmptyBundle() *AppError {
	return &AppError{Code: "EMPTY_BUNDLE", Message: "no valid files were uploaded in the bundle", Err: ErrEmptyBundle}
}

func Precondition(msg string) *AppError {
	return &AppError{Code: "PRECONDITION_FAILED", Message: msg, Err: ErrPrecondition}
}

func Storage(msg string, err error) *AppError {
	return &AppError{Code: "STORAGE_FAILURE", Message: msg, Err: errors.Join(ErrStorage, err)}
}

func Filesystem(msg string, err error) *AppError {
	return &AppError{Code: "FILESYSTEM_FAILURE", Message: msg, Err: errors.Join(ErrFilesystem, err)}
}
