package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// TransientError wraps an error that is safe to retry (e.g., 429, 5xx,
// network timeout).
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps an error as transient with an optional HTTP
// status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// defaultRetryableStatuses matches idempotent-looking server-side failures.
var defaultRetryableStatuses = []int{408, 429, 500, 502, 503, 504}

// IsTransient returns true if the error (or any error in its chain) is a
// TransientError carrying a retryable status, or if it matches common
// transient network patterns (timeouts, connection resets, DNS failures).
// When statuses is empty the default retryable set is used.
func IsTransient(err error, statuses ...int) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		// A zero status means transport-level failure, always retryable.
		return te.StatusCode == 0 || IsTransientHTTPStatus(te.StatusCode, statuses...)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Connection reset / refused / DNS.
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String-based heuristics for wrapped errors from HTTP clients.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus returns true if the HTTP status code is in the
// retryable set (the default set when statuses is empty).
func IsTransientHTTPStatus(statusCode int, statuses ...int) bool {
	set := statuses
	if len(set) == 0 {
		set = defaultRetryableStatuses
	}
	for _, s := range set {
		if statusCode == s {
			return true
		}
	}
	return false
}
