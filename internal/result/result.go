// Package result holds the success/failure envelope passed from the lookup
// services to the HTTP layer.
package result

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind categorizes a Failure.
type Kind string

const (
	// KindNotFound means the symbol or company yielded no data.
	KindNotFound Kind = "not_found"
	// KindUpstream means a provider call failed at transport level or answered non-2xx.
	KindUpstream Kind = "upstream"
	// KindInvalid means the inbound request was missing or had malformed parameters.
	KindInvalid Kind = "invalid"
	// KindUnexpected is anything that was not explicitly mapped.
	KindUnexpected Kind = "unexpected"
)

// DefaultMessage is used when an upstream error carries no readable text.
const DefaultMessage = "upstream provider error"

// Failure is the error half of a Result.
type Failure struct {
	Code    int
	Message string
	Kind    Kind
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s (%d): %s", f.Kind, f.Code, f.Message)
}

// Result is either a Success carrying a payload or a Failure. The zero value
// is not meaningful; build one with Success or one of the failure constructors.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Success wraps a payload.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail builds a Failure with the given status code and message.
func Fail[T any](code int, message string, kind Kind) Result[T] {
	return Result[T]{failure: &Failure{Code: code, Message: message, Kind: kind}}
}

// NotFound is a 400 failure for lookups that resolved to nothing.
func NotFound[T any](message string) Result[T] {
	return Fail[T](http.StatusBadRequest, message, KindNotFound)
}

// Invalid is a 400 failure for bad inbound parameters.
func Invalid[T any](message string) Result[T] {
	return Fail[T](http.StatusBadRequest, message, KindInvalid)
}

// FromError converts a provider error into a 400 upstream failure.
// A *Failure already present in the chain is kept as is.
func FromError[T any](err error) Result[T] {
	var f *Failure
	if errors.As(err, &f) {
		return Result[T]{failure: f}
	}
	return Fail[T](http.StatusBadRequest, MessageOf(err), KindUpstream)
}

// Unexpected is a 500 failure for anything not explicitly mapped.
func Unexpected[T any](message string) Result[T] {
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}
	return Fail[T](http.StatusInternalServerError, message, KindUnexpected)
}

// Unwrap returns the payload and a nil failure, or the zero payload and the failure.
func (r Result[T]) Unwrap() (T, *Failure) {
	if r.failure != nil {
		var zero T
		return zero, r.failure
	}
	return r.value, nil
}

// Match calls exactly one of the two handlers. Both are required.
func (r Result[T]) Match(onSuccess func(T), onFailure func(Failure)) {
	if r.failure != nil {
		onFailure(*r.failure)
		return
	}
	onSuccess(r.value)
}

// messager is implemented by errors that carry a provider-facing message
// separate from their Error() text.
type messager interface {
	UserMessage() string
}

// MessageOf extracts the best human-readable text from err.
func MessageOf(err error) string {
	if err == nil {
		return DefaultMessage
	}
	var m messager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return DefaultMessage
}
