// Package llm provides a uniform client interface over the supported LLM vendors.
package llm

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes an adapter can surface.
// Vendor-specific error shapes never cross the adapter boundary; every
// failure is mapped onto one of these kinds.
type ErrorKind int

const (
	// KindAuthentication means no usable credential or the vendor rejected it.
	KindAuthentication ErrorKind = iota + 1

	// KindRateLimit means the vendor is throttling requests.
	KindRateLimit

	// KindInvalidRequest means the call to the vendor was malformed.
	KindInvalidRequest

	// KindProvider covers connectivity problems and unexpected vendor failures.
	KindProvider
)

// String returns the human-readable name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindRateLimit:
		return "rate_limit"
	case KindInvalidRequest:
		return "invalid_request"
	case KindProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Error is the single error type exposed by this package.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Provider is the adapter that produced the error, if any.
	Provider string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, provider, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Provider: provider,
		Message:  fmt.Sprintf(format, args...),
	}
}

func wrapError(kind ErrorKind, provider string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Provider: provider,
		Message:  fmt.Sprintf(format, args...),
		Err:      err,
	}
}

// errorKindFromStatus maps a vendor HTTP status onto an error kind.
func errorKindFromStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuthentication
	case status == 429:
		return KindRateLimit
	case status >= 400 && status < 500:
		return KindInvalidRequest
	default:
		return KindProvider
	}
}

// IsClientError reports whether err originated from an LLM client.
func IsClientError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// IsAuthenticationError reports whether err is an authentication failure.
func IsAuthenticationError(err error) bool {
	return isKind(err, KindAuthentication)
}

// IsRateLimitError reports whether err is a vendor throttling failure.
func IsRateLimitError(err error) bool {
	return isKind(err, KindRateLimit)
}

// IsInvalidRequestError reports whether err is a malformed-request failure.
func IsInvalidRequestError(err error) bool {
	return isKind(err, KindInvalidRequest)
}

// IsProviderError reports whether err is a generic vendor-side failure.
func IsProviderError(err error) bool {
	return isKind(err, KindProvider)
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
