package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors (bad query, unknown
	// collection). These are not transient.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// CMRError represents a CMR request failure with additional context.
type CMRError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Errors     []string // error strings from the CMR error body, if present
	Err        error
}

// Error implements the error interface.
func (e *CMRError) Error() string {
	msg := e.Message
	if len(e.Errors) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Errors, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("CMR %s error: %s: %v", e.ErrorClass, msg, e.Err)
	}
	return fmt.Sprintf("CMR %s error (status %d): %s", e.ErrorClass, e.StatusCode, msg)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *CMRError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err represents a transient failure (server or
// network class) that a caller may reasonably retry. The client itself never
// retries; this is classification only.
func IsRetryable(err error) bool {
	var cmrErr *CMRError
	if errors.As(err, &cmrErr) {
		return cmrErr.ErrorClass == ErrorClassServer || cmrErr.ErrorClass == ErrorClassNetwork
	}
	return false
}

// newStatusError builds a CMRError from a non-2xx response, decoding the
// CMR error body ({"errors": [...]}) when one is present.
func newStatusError(resp *http.Response) *CMRError {
	cmrErr := &CMRError{
		StatusCode: resp.StatusCode,
		ErrorClass: classifyError(resp, nil),
		Message:    resp.Status,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return cmrErr
	}

	var payload struct {
		Errors []string `json:"errors"`
	}
	if json.Unmarshal(body, &payload) == nil {
		cmrErr.Errors = payload.Errors
	}

	return cmrErr
}
