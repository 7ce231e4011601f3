package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// Common error types used across tokenframe packages
var (
	ErrInvalidInputType   = errors.New("invalid input type")
	ErrRemoteTokenization = errors.New("remote tokenization failed")
	ErrInvalidPattern     = errors.New("invalid tokenizer pattern")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrColumnLength       = errors.New("column length mismatch")
)

// InvalidInputTypeError reports a non-string column handed to tokenize.
type InvalidInputTypeError struct {
	Column string
	Type   string
}

func (e *InvalidInputTypeError) Error() string {
	return fmt.Sprintf("tokenize() requires all input columns to be of a String type. Received %s (column %q). "+
		"Please convert column to a string column first.", e.Type, e.Column)
}

func (e *InvalidInputTypeError) Unwrap() error { return ErrInvalidInputType }

// RemoteError describes a failed round trip to the analyzer service.
// Status is zero when no response was received.
type RemoteError struct {
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: POST %s", ErrRemoteTokenization, e.URL)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemoteTokenization}
	}
	return []error{ErrRemoteTokenization, e.Err}
}

// IsRetryable reports whether a remote failure is worth another attempt:
// dial/read failures, timeouts and 5xx/429 responses are, everything else
// (bad URL, 4xx, malformed body, cancellation) is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var re *RemoteError
	if errors.As(err, &re) && re.Status != 0 {
		return re.Status >= 500 || re.Status == http.StatusTooManyRequests
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"temporary failure",
		"connection refused",
		"connection reset",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(message, args...), err)
}
