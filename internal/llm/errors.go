package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies an upstream model failure so callers can tell a
// timeout from a rate limit from a malformed response without parsing
// error strings.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindRateLimited ErrorKind = "rate_limited"
	KindMalformed   ErrorKind = "malformed_response"
	KindUpstream    ErrorKind = "upstream"
)

// UpstreamError wraps a failure from the model provider with a stable kind.
// The core never retries these; they escalate to the caller.
type UpstreamError struct {
	Kind ErrorKind
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm upstream error (%s): %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classify maps a transport error to an UpstreamError with the right kind.
// statusCode is the HTTP status if one was received, otherwise 0.
func classify(err error, statusCode int) *UpstreamError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &UpstreamError{Kind: KindTimeout, Err: err}
	case statusCode == 429:
		return &UpstreamError{Kind: KindRateLimited, Err: err}
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return &UpstreamError{Kind: KindTimeout, Err: err}
		}
		return &UpstreamError{Kind: KindUpstream, Err: err}
	}
}

// malformed builds an UpstreamError for a response the adapter could not use.
func malformed(format string, args ...interface{}) *UpstreamError {
	return &UpstreamError{Kind: KindMalformed, Err: fmt.Errorf(format, args...)}
}
