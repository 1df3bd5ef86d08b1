package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestWrapCacheError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapCacheError(cause, "failed to read schedule")

	assert.ErrorIs(t, err, ErrCache)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[CACHE_ERROR] failed to read schedule", err.Error())
}

func TestValidationError(t *testing.T) {
	t.Run("matches generic and specific sentinels", func(t *testing.T) {
		err := NewFieldError("principal", ErrInvalidPrincipal, "must be greater than %d", 0)

		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrInvalidPrincipal)
		assert.NotErrorIs(t, err, ErrInvalidRate)
		assert.Equal(t, "validation failed for field 'principal': must be greater than 0", err.Error())
	})

	t.Run("codes follow the cause", func(t *testing.T) {
		cases := map[error]string{
			ErrInvalidPrincipal: "INVALID_PRINCIPAL",
			ErrInvalidRate:      "INVALID_RATE",
			ErrInvalidTenure:    "INVALID_TENURE",
			ErrInvalidDate:      "INVALID_DATE",
			ErrInvalidLoanType:  "INVALID_LOAN_TYPE",
		}
		for cause, code := range cases {
			ve := &ValidationError{Field: "f", Message: "m", Cause: cause}
			assert.Equal(t, code, ve.Code())
		}
		assert.Equal(t, "VALIDATION_FAILED", (&ValidationError{Message: "m"}).Code())
	})

	t.Run("message without field", func(t *testing.T) {
		err := NewValidationError("", "bad input")
		assert.Equal(t, "validation failed: bad input", err.Error())
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestValidationErrors(t *testing.T) {
	joined := errors.Join(
		NewFieldError("principal", ErrInvalidPrincipal, "too small"),
		NewFieldError("tenureMonths", ErrInvalidTenure, "must be positive"),
	)
	wrapped := fmt.Errorf("%w: creating loan: %w", ErrInvalidArgument, joined)

	list := ValidationErrors(wrapped)
	require.Len(t, list, 2)
	assert.Equal(t, "principal", list[0].Field)
	assert.Equal(t, "tenureMonths", list[1].Field)

	assert.Nil(t, ValidationErrors(nil))
	assert.Empty(t, ValidationErrors(errors.New("plain")))
}
