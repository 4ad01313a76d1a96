package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationWrapsSentinel(t *testing.T) {
	err := Validation("status %q desconhecido", "foo")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), `status "foo" desconhecido`)
}

func TestNotFoundWrapsSentinel(t *testing.T) {
	err := NotFound("regra tributária", "abc")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "regra tributária com ID abc")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("%w: timeout", ErrProvider)))
	assert.True(t, IsRetryable(ErrConcurrentModification))
	assert.True(t, IsRetryable(fmt.Errorf("carregar estoque: %w", ErrDataUnavailable)))
	assert.False(t, IsRetryable(ErrNotFound))
	assert.False(t, IsRetryable(ErrInvalidStateTransition))
}
