package srafetch

import (
	"errors"
	"fmt"
)

// Kind is a coarse failure category. Callers can decide between abort and
// log; the harvester itself always aborts.
type Kind int

const (
	// KindTransport marks a failed HTTP exchange or a non-success status.
	KindTransport Kind = iota
	// KindPayload marks an API-level error marker or a response body that
	// does not decode as the expected envelope.
	KindPayload
	// KindParse marks a malformed XML fragment.
	KindParse
	// KindMissingField marks an expected nested key that is absent during
	// assembly or flattening.
	KindMissingField
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindPayload:
		return "payload"
	case KindParse:
		return "parse"
	case KindMissingField:
		return "missing field"
	}
	return "unknown"
}

// Error wraps a failure category and a message.
type Error struct {
	Kind    Kind
	Message string
}

// Error to satisfy interface.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errorf(kind Kind, format string, args ...interface{}) Error {
	return Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries the given failure category.
func IsKind(err error, kind Kind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
