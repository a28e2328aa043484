package internal

import "fmt"

// StorageError represents errors accessing the message store
type StorageError struct {
	Table string
	Op    string // "open", "query", "iterate", "count", "diagnostic"
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DecodeError represents a row that failed to scan into its record shape
type DecodeError struct {
	Table string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error [%s]: %v", e.Table, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
