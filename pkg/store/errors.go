package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a row with the requested id doesn't exist
var ErrNotFound = errors.New("not found")

// ConnectError reports a failure to connect to the store
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string { return fmt.Sprintf("store connect: %v", e.Err) }

// Unwrap returns the underlying error
func (e *ConnectError) Unwrap() error { return e.Err }

// WriteError reports a rejected write
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("store write, %s: %v", e.Op, e.Err) }

// Unwrap returns the underlying error
func (e *WriteError) Unwrap() error { return e.Err }

// ReadError reports a failed query or scan
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("store read, %s: %v", e.Op, e.Err) }

// Unwrap returns the underlying error
func (e *ReadError) Unwrap() error { return e.Err }
