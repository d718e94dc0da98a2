package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrMalformedResponse indicates the upstream returned a success status with
// a body that is not the expected JSON object.
var ErrMalformedResponse = errors.New("malformed github response")

// statusError carries the HTTP status of a failed upstream call.
type statusError struct {
	StatusCode int
	Err        error
}

func (e *statusError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("http status %d: %v", e.StatusCode, e.Err)
}

func (e *statusError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StatusCode extracts the wrapped HTTP status code when available.
func StatusCode(err error) (int, bool) {
	var stErr *statusError
	if errors.As(err, &stErr) {
		return stErr.StatusCode, true
	}
	return 0, false
}

// IsNotFound reports whether an error is an upstream 404.
func IsNotFound(err error) bool {
	status, ok := StatusCode(err)
	return ok && status == http.StatusNotFound
}

// IsMalformed reports whether an error stems from an undecodable 2xx body.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// FailureKind buckets a resolution error for logging and tests.
type FailureKind string

const (
	// FailureNetwork is a transport-level failure, including timeouts.
	FailureNetwork FailureKind = "network"
	// FailureNotFound is an upstream 404.
	FailureNotFound FailureKind = "not_found"
	// FailureUpstream is any other non-2xx upstream response.
	FailureUpstream FailureKind = "upstream"
	// FailureMalformed is a 2xx response with an undecodable body.
	FailureMalformed FailureKind = "malformed_response"
)

// ClassifyFailure maps a resolution error onto the failure taxonomy.
func ClassifyFailure(err error) FailureKind {
	switch {
	case IsMalformed(err):
		return FailureMalformed
	case IsNotFound(err):
		return FailureNotFound
	}
	if _, ok := StatusCode(err); ok {
		return FailureUpstream
	}
	return FailureNetwork
}

func isDecodeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return true
	}
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var stErr *statusError
	if errors.As(err, &stErr) {
		if stErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		if stErr.StatusCode == http.StatusForbidden && looksLikeRateLimit(stErr.Err) {
			return true
		}
		return stErr.StatusCode >= 500 && stErr.StatusCode <= 599
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func looksLikeRateLimit(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "rate limit")
}
