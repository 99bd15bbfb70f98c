package timer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeHelpers(t *testing.T) {
	assert.True(t, IsConflict(newConflict("u1")))
	assert.True(t, IsNotFound(newNotFound("u1")))
	assert.True(t, IsInvalidState(newInvalidState("u1", "already paused")))
	assert.True(t, IsStorage(newStorage("u1", errors.New("disk full"))))

	assert.False(t, IsConflict(newNotFound("u1")))
	assert.False(t, IsConflict(errors.New("plain error")))
	assert.False(t, IsConflict(nil))
}

func TestHelpersUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", newConflict("u1"))
	assert.True(t, IsConflict(wrapped))
}

func TestErrorMessage(t *testing.T) {
	err := newConflict("u1")
	assert.Equal(t, "CONFLICT: a timer is already running (owner=u1)", err.Error())

	cause := errors.New("disk full")
	storage := newStorage("", cause)
	assert.Equal(t, "STORAGE: persistence failure", storage.Error())
	assert.ErrorIs(t, storage, cause)
}
