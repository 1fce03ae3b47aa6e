package senate

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the locator exhausts the channel history.
	ErrNotFound = errors.New("senate: no bill with that index found")
	// ErrAlreadyConcluded is returned for actions on a bill that is no longer open.
	ErrAlreadyConcluded = errors.New("senate: bill has already been concluded")
	// ErrNotAuthor is returned when someone other than the author edits or withdraws.
	ErrNotAuthor = errors.New("senate: requester is not the bill author")
	// ErrNotVoided is returned by Unvoid on a bill without the void marker.
	ErrNotVoided = errors.New("senate: bill is not void")
)

// ValidationError rejects a request before any state changes.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// MalformedBillError means a message located as a bill could not be decoded.
type MalformedBillError struct {
	MessageID string
	Reason    string
}

func (e *MalformedBillError) Error() string {
	if e.MessageID == "" {
		return "senate: malformed bill text: " + e.Reason
	}
	return fmt.Sprintf("senate: malformed bill text in message %s: %s", e.MessageID, e.Reason)
}
