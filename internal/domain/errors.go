package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound  = errors.New("engagement record not found")
	ErrNegativeCounter = errors.New("counter values must not be negative")
	ErrEmptyComment    = errors.New("comment is empty")
	ErrCommentTooLong  = errors.New("comment is too long")
)

// RemoteReadError wraps a failed read or subscription of the shared record.
type RemoteReadError struct {
	Err error
}

func (e *RemoteReadError) Error() string { return fmt.Sprintf("remote read failed: %v", e.Err) }
func (e *RemoteReadError) Unwrap() error { return e.Err }

// RemoteWriteError wraps a failed increment or reaction update. Op names the
// operation ("increment_views" or "update_reactions").
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote write %s failed: %v", e.Op, e.Err)
}
func (e *RemoteWriteError) Unwrap() error { return e.Err }
