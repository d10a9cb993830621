package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError_KnownCode(t *testing.T) {
	err := NewError(ErrAvatarNotFound, "alice")

	assert.Equal(t, ErrAvatarNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, `No avatar for user "alice".`, err.Message)
	assert.Contains(t, err.Error(), "Error Code 2103 (HTTP 404)")
}

func TestNewError_UnknownCodeFallsBack(t *testing.T) {
	err := NewError(424242)

	assert.Equal(t, ErrUnknown, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestNewError_DetailsIgnoredWithoutPlaceholder(t *testing.T) {
	err := NewError(ErrInvalidState, "sleeping")

	assert.Equal(t, errorMap[ErrInvalidState].Message, err.Message)
}

func TestNewError_DoesNotMutateTemplate(t *testing.T) {
	_ = NewError(ErrAvatarNotFound, "bob")

	assert.Equal(t, "No avatar for user %q.", errorMap[ErrAvatarNotFound].Message)
}

func TestErrorMap_EveryEntryIsConsistent(t *testing.T) {
	for code, tmpl := range errorMap {
		assert.Equal(t, code, tmpl.Code)
		assert.NotZero(t, tmpl.Status, code)
		assert.NotEmpty(t, tmpl.Message, code)
	}
}

func TestCustomError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("set direction: %w", NewError(ErrAvatarNotFound, "alice"))

	assert.True(t, errors.Is(err, NewError(ErrAvatarNotFound)))
	assert.False(t, errors.Is(err, NewError(ErrInvalidState)))
	assert.Equal(t, ErrAvatarNotFound, CodeOf(err))
	assert.Equal(t, ErrUnknown, CodeOf(errors.New("boom")))
}
