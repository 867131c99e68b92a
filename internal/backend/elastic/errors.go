package elastic

import (
	"errors"
	"fmt"
)

// Kind classifies a failed count request.
type Kind int

const (
	// KindTransport is a connection-level failure: dial, TLS, timeout, reset.
	KindTransport Kind = iota + 1
	// KindUnexpectedResponse is a non-success status or an unparseable body.
	KindUnexpectedResponse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnexpectedResponse:
		return "unexpected_response"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for errors.Is.
var (
	ErrTransport          = errors.New("elastic: transport error")
	ErrUnexpectedResponse = errors.New("elastic: unexpected response")
)

// Error is returned by Client.Count on failure.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, 0 for transport errors
	Body   string // truncated response body, if any
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Cause != nil:
		return fmt.Sprintf("elastic: %s (status %d): %v", e.Kind, e.Status, e.Cause)
	case e.Status != 0:
		return fmt.Sprintf("elastic: %s (status %d)", e.Kind, e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("elastic: %s: %v", e.Kind, e.Cause)
	default:
		return "elastic: " + e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrUnexpectedResponse:
		return e.Kind == KindUnexpectedResponse
	}
	return false
}

// KindOf returns the kind of a Count error, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
