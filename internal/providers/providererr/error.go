package providererr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies provider failures so callers can decide whether to retry.
type Kind string

const (
	KindInvalid     Kind = "invalid"
	KindRateLimited Kind = "rate_limited"
	KindTimeout     Kind = "timeout"
	KindConnection  Kind = "connection"
	KindBadResponse Kind = "bad_response"
)

// Error is returned by adapters for every failed upstream call.
type Error struct {
	Provider string
	Kind     Kind
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %v (status %d)", e.Provider, e.Err, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Transient reports whether the failure is worth another attempt.
func (e *Error) Transient() bool {
	switch e.Kind {
	case KindRateLimited, KindTimeout, KindConnection, KindBadResponse:
		return true
	default:
		return false
	}
}

// New wraps err with provider metadata.
func New(provider string, kind Kind, status int, err error) *Error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Provider: provider, Kind: kind, Status: status, Err: err}
}

// KindForStatus maps an upstream HTTP status to a failure kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindBadResponse
	default:
		return KindInvalid
	}
}

// FromStatus builds an error for a non-success HTTP response.
func FromStatus(provider string, status int, msg string) *Error {
	kind := KindForStatus(status)
	if msg == "" {
		switch kind {
		case KindRateLimited:
			msg = "too many requests"
		case KindTimeout:
			msg = "upstream timeout"
		case KindInvalid:
			msg = "invalid argument"
		default:
			msg = "bad response"
		}
	}
	return New(provider, kind, status, errors.New(msg))
}

// FromTransport classifies errors raised before a response was received.
// Context cancellation is passed through untouched.
func FromTransport(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return New(provider, KindTimeout, 0, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return New(provider, KindTimeout, 0, err)
	}
	return New(provider, KindConnection, 0, err)
}
