package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure. The classification decides whether the
// client retries: network, timeout, and server errors are transient; client
// errors are terminal because the same request will keep failing.
type Kind int

const (
	// KindNetwork covers transport failures such as DNS errors and refused
	// connections.
	KindNetwork Kind = iota + 1
	// KindTimeout covers deadline expiry, both per-request and context.
	KindTimeout
	// KindClient covers 4xx responses.
	KindClient
	// KindServer covers 5xx responses.
	KindServer
	// KindExhausted reports that every allowed attempt failed. The wrapped
	// error is the failure from the final attempt.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by Client. Callers inspect it with
// errors.As to distinguish terminal from transient failures.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindClient, KindServer:
		return fmt.Sprintf("fetch %s: http %d", e.URL, e.StatusCode)
	case KindExhausted:
		return fmt.Sprintf("fetch %s: failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout, KindServer:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether err is a fetch failure that retrying cannot fix.
func IsTerminal(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return !fe.retryable()
	}
	return false
}
