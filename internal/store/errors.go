package store

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed means the stored record could not be decoded.
	ErrMalformed = errors.New("malformed record")

	// ErrUnsupportedVersion means the record was written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported record version")
)

// PersistenceError is a read or write failure against the durable store.
type PersistenceError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
