package conversation

import (
	"errors"
)

// ErrInvalidInput is returned when the user message is empty or whitespace
// only. No state changes; the caller just re-prompts.
var ErrInvalidInput = errors.New("user message is empty")

// ConfigurationError means a required capability handle was missing at
// construction. Retrying without fixing configuration will not help.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "conversation configuration: " + e.Reason
}

// RetrievalError wraps a failed or timed-out retrieval call. History is
// unmodified, so the same turn can be retried.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return "retrieval failed: " + e.Err.Error()
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// CompletionError wraps a failed or timed-out completion call. History is
// unmodified, so the same turn can be retried.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return "completion failed: " + e.Err.Error()
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
