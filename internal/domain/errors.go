package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNotAdmin = errors.New("admin access required")
)

// StorageError wraps a failed store operation so callers can report a
// generic failure without leaking driver details.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// NotificationError marks a failed outbound notification. Orders stay
// persisted regardless; this is reported as a soft failure.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string { return fmt.Sprintf("notification: %v", e.Err) }
func (e *NotificationError) Unwrap() error { return e.Err }
