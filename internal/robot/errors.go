package robot

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrMalformedPose reports a pose body without a pose object or with x/y
// values that are not numbers.
var ErrMalformedPose = errors.New("malformed pose response")

// FailureKind classifies a failed network operation.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTimeout
	FailureConnection
	FailureMalformed
	FailureHTTPStatus
	FailureCanceled
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureTimeout:
		return "timeout"
	case FailureConnection:
		return "connection failed"
	case FailureMalformed:
		return "malformed response"
	case FailureHTTPStatus:
		return "http error"
	case FailureCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// TransportError is a request that never produced an HTTP response:
// refused connection, DNS failure, timeout, or cancellation.
type TransportError struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a response with a 4xx or 5xx status.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

// PollError is the typed failure returned by PosePoller.Poll.
type PollError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *PollError) Error() string {
	if e.Kind == FailureHTTPStatus {
		return fmt.Sprintf("poll pose: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("poll pose: %s: %v", e.Kind, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// KindOf reports the failure kind carried by err.
func KindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var pollErr *PollError
	if errors.As(err, &pollErr) {
		return pollErr.Kind
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Kind
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return FailureHTTPStatus
	}
	if errors.Is(err, ErrMalformedPose) {
		return FailureMalformed
	}
	return classifyTransport(err)
}

// classifyTransport maps an http.Client error to a failure kind.
func classifyTransport(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	if errors.Is(err, context.Canceled) {
		return FailureCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureConnection
}

// Summary renders err as a short operator-facing message.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case FailureTimeout:
		return "Robot did not answer in time"
	case FailureConnection:
		return "Could not reach the robot"
	case FailureMalformed:
		return "Robot sent an unreadable pose"
	case FailureHTTPStatus:
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return fmt.Sprintf("Robot returned HTTP %d", httpErr.StatusCode)
		}
		var pollErr *PollError
		if errors.As(err, &pollErr) {
			return fmt.Sprintf("Robot returned HTTP %d", pollErr.StatusCode)
		}
		return "Robot returned an HTTP error"
	case FailureCanceled:
		return "Request canceled"
	default:
		return err.Error()
	}
}
