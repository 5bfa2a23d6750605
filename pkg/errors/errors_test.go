package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesTemplate(t *testing.T) {
	err := fmt.Errorf("record answer: %w", Clone(ErrValidation, "topic is required"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, FromError(err).Status)
	assert.Equal(t, "topic is required", FromError(err).Message)
}

func TestWrapAsKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapAs(cause, ErrUpstream, "")

	assert.Equal(t, "UPSTREAM_ERROR", err.Code)
	assert.Equal(t, ErrUpstream.Message, err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upstream service failed: connection reset", err.Error())
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	err := FromError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Nil(t, FromError(nil))
}
