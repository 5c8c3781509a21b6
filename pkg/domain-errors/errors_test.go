package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "bad input")
	assert.EqualError(t, err, "validation: bad input")
	assert.True(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(err, CodeNotFound))
}

func TestWrap(t *testing.T) {
	t.Run("preserves the cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Wrap(cause, CodeInternal, "failed to persist")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.EqualError(t, err, "internal: failed to persist: disk full")
	})

	t.Run("nil in, nil out", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("finds codes anywhere in the chain", func(t *testing.T) {
		inner := New(CodeNotFound, "missing")
		outer := Wrap(inner, CodeInternal, "lookup failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeNotFound))
		assert.False(t, HasCode(outer, CodeConflict))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "taken")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("uncoded")))

	outer := Wrap(New(CodeNotFound, "missing"), CodeBadRequest, "bad call")
	assert.Equal(t, CodeBadRequest, CodeOf(outer), "outermost code wins")
}

func TestHasCodeUncoded(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}
