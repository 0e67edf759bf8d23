package api

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes a failed call to the completion server
type ErrorKind int

const (
	KindTransport  ErrorKind = iota // Connection refused, DNS, timeout...
	KindHTTPStatus                  // Server answered with a non-2xx status
	KindMalformed                   // 2xx, but the body is not what we expected
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport failure"
	case KindHTTPStatus:
		return "http status failure"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown failure"
	}
}

type Error struct {
	Kind   ErrorKind
	Status int // HTTP status, zero for transport failures
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("HTTP error! status: %d", e.Status)
	case KindMalformed:
		if e.Err != nil {
			return "invalid response: " + e.Err.Error()
		}
		return "invalid response"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind and, for status failures, on the status code when the
// target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == ErrNoChoices {
		return e == ErrNoChoices
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

var (
	ErrTransport  = &Error{Kind: KindTransport}
	ErrHTTPStatus = &Error{Kind: KindHTTPStatus}
	ErrMalformed  = &Error{Kind: KindMalformed}

	// ErrNoChoices is returned for a 2xx body that decoded fine but carries no
	// completion choice.
	ErrNoChoices = &Error{Kind: KindMalformed, Err: errors.New("response has no choices")}
)

// KindOf reports the kind of err, if it came from this package
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}
