package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal error"
	// NotConfiguredMessage is returned by every assistant call when no credential is set.
	NotConfiguredMessage = "service not configured"
	// ParseErrorMessage is shown when the model output could not be turned into filters.
	ParseErrorMessage = "could not understand query"
	// BusyMessage is returned when a session already has a call in flight.
	BusyMessage = "already asking"
	// StorageErrorMessage describes conversation storage failures.
	StorageErrorMessage = "conversation storage failed"
	// StorageNotFoundMessage describes a missing conversation key.
	StorageNotFoundMessage = "conversation not found"
)

// Kind classifies an assistant failure. Callers branch on it.
type Kind string

const (
	KindConfig            Kind = "config"
	KindTimeout           Kind = "timeout"
	KindUpstream          Kind = "upstream"
	KindMalformedResponse Kind = "malformed_response"
	KindParse             Kind = "parse"
	KindBusy              Kind = "busy"
	KindCanceled          Kind = "canceled"
	KindInvalidInput      Kind = "invalid_input"
	KindStorage           Kind = "storage"
	KindInternal          Kind = "internal"
)

// AppError wraps an underlying error with a kind, an HTTP-ish status and a safe message.
// Status carries the upstream status code for KindUpstream when one was received.
type AppError struct {
	Kind    Kind
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches the underlying error or is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) && t != nil {
		return t.Kind == e.Kind
	}
	return errors.Is(e.Err, target)
}

// New creates a new AppError with the provided information.
func New(kind Kind, err error, status int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Config reports an unusable service, known at construction time.
func Config(message string) *AppError {
	return New(KindConfig, nil, http.StatusServiceUnavailable, message)
}

// NotConfigured is the error every call returns when no credential was supplied.
func NotConfigured() *AppError {
	return Config(NotConfiguredMessage)
}

// Timeout reports a call that exceeded its deadline.
func Timeout(err error) *AppError {
	return New(KindTimeout, err, http.StatusGatewayTimeout, "upstream timed out")
}

// Upstream reports a transport failure or a non-2xx response. status is 0 when
// no response was received.
func Upstream(err error, status int, message string) *AppError {
	if message == "" {
		message = "upstream request failed"
	}
	return New(KindUpstream, err, status, message)
}

// Malformed reports a successful response with an unexpected shape.
func Malformed(message string) *AppError {
	return New(KindMalformedResponse, nil, http.StatusBadGateway, message)
}

// Parse reports model output that could not be interpreted.
func Parse(err error) *AppError {
	return New(KindParse, err, http.StatusUnprocessableEntity, ParseErrorMessage)
}

// Busy reports a rejected call because another one is in flight.
func Busy() *AppError {
	return New(KindBusy, nil, http.StatusConflict, BusyMessage)
}

// Canceled reports a call abandoned by its caller.
func Canceled(err error) *AppError {
	return New(KindCanceled, err, 499, "request canceled")
}

// InvalidInput reports caller input rejected before any network I/O.
func InvalidInput(message string) *AppError {
	return New(KindInvalidInput, nil, http.StatusBadRequest, message)
}

// KindOf returns the kind of err, KindCanceled for bare context cancellation,
// and KindInternal for anything else.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether a failure is transient. Only timeouts and upstream
// failures qualify; parse, config and malformed responses never do.
func Retryable(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Kind {
	case KindTimeout:
		return true
	case KindUpstream:
		// client errors other than rate limiting will not succeed on retry
		if appErr.Status >= 400 && appErr.Status < 500 {
			return appErr.Status == http.StatusTooManyRequests || appErr.Status == http.StatusRequestTimeout
		}
		return true
	default:
		return false
	}
}

// UserMessage renders err as the inline, non-blocking text shown next to the chat or search box.
func UserMessage(err error) string {
	switch KindOf(err) {
	case "":
		return ""
	case KindConfig:
		return "AI assistant is currently unavailable."
	case KindTimeout, KindUpstream, KindMalformedResponse:
		return "Sorry, I encountered an error. Please try again."
	case KindParse:
		return "Could not understand that query. Try rephrasing it."
	case KindBusy:
		return "Still working on your previous question."
	case KindCanceled:
		return "Request canceled."
	case KindInvalidInput:
		var appErr *AppError
		if errors.As(err, &appErr) {
			return appErr.Message
		}
		return "Invalid input."
	default:
		return "Sorry, something went wrong."
	}
}
