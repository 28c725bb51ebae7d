// Package errors provides standardized error handling for the scheduling
// engine. Every failure inside the engine is a soft-fail: the affected
// unit of work is skipped and the remainder continues.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRemoteRequestFailed ErrorCode = "REMOTE_REQUEST_FAILED"
	ErrCodeMalformedResponse   ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeMissingPromoterKey  ErrorCode = "MISSING_PROMOTER_KEY"
	ErrCodeCacheReadFailed     ErrorCode = "CACHE_READ_FAILED"
	ErrCodeCacheWriteFailed    ErrorCode = "CACHE_WRITE_FAILED"
	ErrCodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewRemoteRequestFailedError wraps a transport failure against the
// remote store. Not retryable: a failed fetch waits for the next natural
// input change.
func NewRemoteRequestFailedError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteRequestFailed,
		Message:   "Remote store request failed",
		Details:   fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError creates a response-shape validation error.
func NewMalformedResponseError(endpoint, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Remote store response failed schema validation",
		Details:   fmt.Sprintf("endpoint: %s, %s", endpoint, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingPromoterKeyError marks a roster entry with no identifying key.
func NewMissingPromoterKeyError(promoterName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingPromoterKey,
		Message:   "Promoter has no identifying key",
		Details:   fmt.Sprintf("promoter: %s", promoterName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheReadFailedError creates a cache read error.
func NewCacheReadFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheReadFailed,
		Message:   "Outcome cache read failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheWriteFailedError creates a cache write error.
func NewCacheWriteFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheWriteFailed,
		Message:   "Outcome cache write failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError marks a malformed API request.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
