package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrInternalServer = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")

	ErrCache = errors.New("cache error")
)

// Loan input violations. Each one is carried as the Cause of a ValidationError.
var (
	ErrInvalidPrincipal = errors.New("invalid principal")

	ErrInvalidRate = errors.New("invalid interest rate")

	ErrInvalidTenure = errors.New("invalid tenure")

	ErrInvalidDate = errors.New("invalid date")

	ErrInvalidLoanType = errors.New("invalid loan type")
)

var codes = map[error]string{
	ErrInvalidPrincipal: "INVALID_PRINCIPAL",
	ErrInvalidRate:      "INVALID_RATE",
	ErrInvalidTenure:    "INVALID_TENURE",
	ErrInvalidDate:      "INVALID_DATE",
	ErrInvalidLoanType:  "INVALID_LOAN_TYPE",
}

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Unwrap exposes both the generic ErrValidation and the specific cause, so
// errors.Is matches either.
func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Cause}
}

// Code returns a stable machine-readable code for the cause, or "VALIDATION_FAILED".
func (e *ValidationError) Code() string {
	for sentinel, code := range codes {
		if errors.Is(e.Cause, sentinel) {
			return code
		}
	}
	return "VALIDATION_FAILED"
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewFieldError(field string, cause error, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ValidationErrors flattens err (including errors.Join trees) into its ValidationErrors.
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var out []*ValidationError
	var walk func(error)
	walk = func(e error) {
		switch u := e.(type) {
		case *ValidationError:
			out = append(out, u)
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapCacheError(cause error, message string) error {
	return &AppError{
		Code:    "CACHE_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrCache, cause),
	}
}
