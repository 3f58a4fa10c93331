package api

import "fmt"

// ErrKind classifies why a fetch failed.
type ErrKind int

const (
	// NetworkFailure means the request could not complete.
	NetworkFailure ErrKind = iota + 1
	// ProtocolFailure means the backend answered with a non-success status.
	ProtocolFailure
	// MalformedPayload means the body did not decode as an analytics snapshot.
	MalformedPayload
)

func (k ErrKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case ProtocolFailure:
		return "protocol failure"
	case MalformedPayload:
		return "malformed payload"
	default:
		return "unknown failure"
	}
}

// FetchError is returned by every Client call that fails.
type FetchError struct {
	Kind   ErrKind
	Status int // HTTP status, ProtocolFailure only
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == ProtocolFailure {
		return fmt.Sprintf("%s (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
