package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrorType is the category of an upstream failure.
type ErrorType string

const (
	// ErrorTypeNetwork is a transport level failure (connection refused, DNS, reset).
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout means the call did not finish in time.
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeRateLimit is an HTTP 429 from the provider.
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer is an HTTP 5xx from the provider.
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient is an HTTP 4xx other than 429.
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeDecode means the body could not be understood.
	ErrorTypeDecode ErrorType = "decode"
)

// UpstreamError is returned by provider clients for every failed call.
type UpstreamError struct {
	Provider   string
	Type       ErrorType
	StatusCode int
	// Message is the provider's own explanation when one could be extracted.
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s error (status %d): %s", e.Provider, e.Type, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s error: %s", e.Provider, e.Type, msg)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// UserMessage is the text surfaced to API callers.
func (e *UpstreamError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
}

// TransportError wraps an error returned before any response was received.
func TransportError(provider string, err error) *UpstreamError {
	t := ErrorTypeNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		t = ErrorTypeTimeout
	}
	return &UpstreamError{Provider: provider, Type: t, Cause: err}
}

// DecodeError wraps a body that did not match the expected shape.
func DecodeError(provider string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Type: ErrorTypeDecode, Message: "invalid response from " + provider, Cause: err}
}

// Classify builds the error for a non-2xx response. message is whatever the
// caller managed to extract from the error body and may be empty.
func Classify(provider string, statusCode int, message string) *UpstreamError {
	e := &UpstreamError{Provider: provider, StatusCode: statusCode, Message: strings.TrimSpace(message)}
	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Type = ErrorTypeRateLimit
	case statusCode >= 500:
		e.Type = ErrorTypeServer
	default:
		e.Type = ErrorTypeClient
	}
	return e
}
