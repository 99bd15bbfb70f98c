package timer

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes timer operation failures.
type ErrorCode string

const (
	// CodeConflict: Start while the owner already has an active timer.
	CodeConflict ErrorCode = "CONFLICT"

	// CodeInvalidState: Pause while paused, or Resume while running.
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// CodeNotFound: Pause/Resume/Stop with no active timer.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeStorage: the log or entry store failed to persist.
	CodeStorage ErrorCode = "STORAGE"
)

// Error is a timer state-machine failure. Invariant violations (conflict,
// invalid state, not found) mean the caller holds a stale view and should
// re-fetch status rather than retry.
type Error struct {
	Code    ErrorCode
	Message string
	OwnerID string
	Err     error
}

func (e *Error) Error() string {
	if e.OwnerID != "" {
		return fmt.Sprintf("%s: %s (owner=%s)", e.Code, e.Message, e.OwnerID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newConflict(ownerID string) *Error {
	return &Error{Code: CodeConflict, Message: "a timer is already running", OwnerID: ownerID}
}

func newInvalidState(ownerID, msg string) *Error {
	return &Error{Code: CodeInvalidState, Message: msg, OwnerID: ownerID}
}

func newNotFound(ownerID string) *Error {
	return &Error{Code: CodeNotFound, Message: "no active timer", OwnerID: ownerID}
}

func newStorage(ownerID string, err error) *Error {
	return &Error{Code: CodeStorage, Message: "persistence failure", OwnerID: ownerID, Err: err}
}

func hasCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// IsConflict reports whether err is a conflict error, unwrapping as needed.
func IsConflict(err error) bool { return hasCode(err, CodeConflict) }

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool { return hasCode(err, CodeInvalidState) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsStorage reports whether err is a storage error.
func IsStorage(err error) bool { return hasCode(err, CodeStorage) }
