package core

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound reports that the remote object does not exist (or does
// not carry the expected document shape). It is not a failure: the caller is
// expected to seed and save a default document.
var ErrDocumentNotFound = errors.New("document not found")

// StoreError wraps a transport or service failure from a blob store backend.
type StoreError struct {
	Op  string // "upload" or "download"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// DecodeError reports a stored document body that could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode document: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConfigError reports incomplete storage credentials.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("storage settings: %s is required", e.Field)
}
