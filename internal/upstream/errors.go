package upstream

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("upstream: not found")
	ErrUnavailable = errors.New("upstream: unavailable")
	ErrMalformed   = errors.New("upstream: malformed response")
)

// Kind separates expected absence from infrastructure failure so callers can
// pick a fallback without inspecting status codes.
type Kind int

const (
	KindUnavailable Kind = iota // network error, timeout, cancelled
	KindNotFound                // 404
	KindStatus                  // any other non-2xx
	KindMalformed               // 2xx with an empty or non-JSON body
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	}
	return "unavailable"
}

// Error is returned by every failed call.
type Error struct {
	Service Service
	Method  string
	Path    string
	Status  int
	Kind    Kind
	// Message is the upstream's own error text when it sent one.
	Message string
	// Body is the upstream error payload when it was a JSON object.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnavailable, KindMalformed:
		return fmt.Sprintf("%s %s %s: %s: %v", e.Service, e.Method, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s %s: HTTP %d: %s", e.Service, e.Method, e.Path, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
