package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{status: 401, want: KindAuthentication},
		{status: 403, want: KindAuthentication},
		{status: 429, want: KindRateLimit},
		{status: 400, want: KindInvalidRequest},
		{status: 404, want: KindInvalidRequest},
		{status: 413, want: KindInvalidRequest},
		{status: 422, want: KindInvalidRequest},
		{status: 500, want: KindProvider},
		{status: 502, want: KindProvider},
		{status: 529, want: KindProvider},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			if got := errorKindFromStatus(tt.status); got != tt.want {
				t.Errorf("errorKindFromStatus(%d) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := wrapError(KindProvider, "openai", cause, "failed to connect")

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the wrapped cause")
	}
	if err.Error() != "failed to connect: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIsKindHelpers(t *testing.T) {
	authErr := newError(KindAuthentication, "anthropic", "no key")
	wrapped := fmt.Errorf("outer: %w", authErr)

	if !IsClientError(wrapped) {
		t.Error("IsClientError() = false for wrapped client error")
	}
	if !IsAuthenticationError(wrapped) {
		t.Error("IsAuthenticationError() = false for wrapped auth error")
	}
	if IsRateLimitError(wrapped) {
		t.Error("IsRateLimitError() = true for auth error")
	}
	if IsClientError(errors.New("plain")) {
		t.Error("IsClientError() = true for plain error")
	}
}
