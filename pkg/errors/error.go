// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, periods, and configuration
//   - Compile errors (200-299): AST shapes the code generator cannot ground
//   - Indicator errors (300-399): Indicator registry and calculation errors
//   - Data errors (400-499): Table loading, ordering, and query failures
//   - Backtest errors (500-599): Simulator configuration and input errors
//   - Rule document errors (600-699): Structured rule validation and versioning
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidPeriod, "period must be positive")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeUnknownSeries, "unknown series %q", name)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeDataLoadFailed, "failed to load table", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeDataNotSorted) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// SyntaxError represents a parse-time failure in DSL text. It always carries
// the source position (1-based line and column) of the offending token.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

// NewSyntaxError creates a new SyntaxError at the given source position.
func NewSyntaxError(line, column int, message string) *SyntaxError {
	return &SyntaxError{
		Line:    line,
		Column:  column,
		Message: message,
	}
}

// NewSyntaxErrorf creates a new SyntaxError with a formatted message.
func NewSyntaxErrorf(line, column int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// IsSyntaxError checks if an error is a SyntaxError.
// It uses errors.As to check the error chain.
func IsSyntaxError(err error) bool {
	var syntaxErr *SyntaxError

	return errors.As(err, &syntaxErr)
}
