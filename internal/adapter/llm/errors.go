// Package llm adapts chat-completion backends to domain.Completer.
package llm

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a completion call failed.
type FailureKind string

const (
	NotConfigured            FailureKind = "not_configured"
	QuotaExceeded            FailureKind = "quota_exceeded"
	InvalidCredentials       FailureKind = "invalid_credentials"
	RateLimited              FailureKind = "rate_limited"
	BackendUnavailable       FailureKind = "backend_unavailable"
	UnknownBackendError      FailureKind = "unknown_backend_error"
	MalformedBackendResponse FailureKind = "malformed_backend_response"
)

// Sentinels for errors.Is checks against a *CompletionError.
var (
	ErrNotConfigured            = &CompletionError{Kind: NotConfigured}
	ErrQuotaExceeded            = &CompletionError{Kind: QuotaExceeded}
	ErrInvalidCredentials       = &CompletionError{Kind: InvalidCredentials}
	ErrRateLimited              = &CompletionError{Kind: RateLimited}
	ErrBackendUnavailable       = &CompletionError{Kind: BackendUnavailable}
	ErrUnknownBackendError      = &CompletionError{Kind: UnknownBackendError}
	ErrMalformedBackendResponse = &CompletionError{Kind: MalformedBackendResponse}
)

// CompletionError is returned by every Completer in this package.
// Message is safe to show to end users.
type CompletionError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *CompletionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Is matches any CompletionError of the same kind.
func (e *CompletionError) Is(target error) bool {
	t, ok := target.(*CompletionError)
	return ok && t.Kind == e.Kind
}

// NewCompletionError builds a CompletionError carrying the default user message for kind.
func NewCompletionError(kind FailureKind, err error) *CompletionError {
	return &CompletionError{Kind: kind, Message: defaultMessage(kind), Err: err}
}

func defaultMessage(kind FailureKind) string {
	switch kind {
	case NotConfigured:
		return "OpenAI API key is not configured"
	case QuotaExceeded:
		return "OpenAI API quota exceeded. Please check your OpenAI billing settings."
	case InvalidCredentials:
		return "Invalid OpenAI API key. Please check your configuration."
	case RateLimited:
		return "OpenAI API rate limit exceeded. Please try again later."
	case BackendUnavailable:
		return "OpenAI service is currently unavailable. Please try again later."
	case MalformedBackendResponse:
		return "Invalid response format from OpenAI"
	default:
		return "OpenAI API error: Unknown error"
	}
}

// UserMessage returns the end-user text for err, or a generic text when err
// did not come from this package.
func UserMessage(err error) string {
	var ce *CompletionError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return "Failed to get AI response: " + err.Error()
}
