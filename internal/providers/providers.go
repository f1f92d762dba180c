// Package providers wraps the three downstream data services behind
// synchronous request/response clients. Every call takes a context and runs
// against a bounded-timeout HTTP client; a failure is reported as
// ErrUnavailable so callers never depend on transport details.
package providers

import (
	"errors"
	"net/http"
	"time"
)

var (
	// ErrUnavailable covers transport failures and non-success responses.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrNotFound means the provider answered but has no record for the
	// query.
	ErrNotFound = errors.New("no record for query")
)

// DefaultTimeout bounds every provider call. The upstream behavior had no
// timeout at all; a stuck provider must not pin a caller forever.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient returns the shared client used by all provider adapters.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
