package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTimeout is returned when a call exceeds the gateway timeout. It is
// safe to retry.
var ErrTimeout = errors.New("request timed out, please try again")

// ErrIncompleteResponse is a 2xx response missing a field the caller
// cannot proceed without, such as the order id.
var ErrIncompleteResponse = errors.New("incomplete response from server")

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// NetworkError is a transport failure: the request never produced a
// response, or the response body could not be read.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether repeating the call may succeed: timeouts,
// transport failures and 5xx responses.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= 500 || httpErr.Status == 429
	}
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// classify turns a transport error into ErrTimeout or a NetworkError.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return &NetworkError{Op: op, Err: err}
}
