package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeEmptyInput ErrorType = "EMPTY_INPUT"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeExport     ErrorType = "EXPORT"
	ErrTypeUnexpected ErrorType = "UNEXPECTED"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// Context keys set by the constructors below
const (
	ContextFile           = "file"
	ContextMissingColumns = "missing_columns"
	ContextPermission     = "permission"
	ContextRow            = "row"
	ContextColumn         = "column"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Fatal reports whether the error must abort a run.
// Only export failures are recoverable.
func (e *AppError) Fatal() bool {
	return e.Type != ErrTypeExport
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a not found error for a file
func NewNotFoundError(file string, cause error) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("file %s does not exist", file), cause).
		WithContext(ContextFile, file)
}

// NewEmptyInputError creates an error for a file without data
func NewEmptyInputError(file string) *AppError {
	return NewAppError(ErrTypeEmptyInput, fmt.Sprintf("no data in %s", file), nil).
		WithContext(ContextFile, file)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewSchemaError creates an error listing every missing required column
func NewSchemaError(file string, missing []string) *AppError {
	cols := make([]string, len(missing))
	copy(cols, missing)
	msg := fmt.Sprintf("missing required columns in %s: [%s]", file, strings.Join(cols, ", "))
	return NewAppError(ErrTypeSchema, msg, nil).
		WithContext(ContextFile, file).
		WithContext(ContextMissingColumns, cols)
}

// NewExportError creates an export error; permission failures are flagged
func NewExportError(file string, cause error) *AppError {
	msg := fmt.Sprintf("error exporting %s", file)
	permission := stderrors.Is(cause, fs.ErrPermission)
	if permission {
		msg = fmt.Sprintf("permission denied when writing %s", file)
	}
	return NewAppError(ErrTypeExport, msg, cause).
		WithContext(ContextFile, file).
		WithContext(ContextPermission, permission)
}

// NewUnexpectedError creates a catch-all error
func NewUnexpectedError(message string, cause error) *AppError {
	return NewAppError(ErrTypeUnexpected, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in the chain.
// Errors that are not AppErrors are reported as unexpected.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrTypeUnexpected
}

// IsType reports whether err carries an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	return TypeOf(err) == errType
}

// MissingColumns returns the missing columns recorded on a schema error
func MissingColumns(err error) []string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Type != ErrTypeSchema {
		return nil
	}
	cols, _ := appErr.Context[ContextMissingColumns].([]string)
	return cols
}

// IsPermission reports whether err is an export error caused by a permission failure
func IsPermission(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	permission, _ := appErr.Context[ContextPermission].(bool)
	return permission
}
