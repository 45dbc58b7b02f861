package greptime

import (
	"fmt"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ErrorKind partitions every failure the client can produce.
type ErrorKind int

const (
	// KindConfiguration marks invalid local configuration, e.g. unreadable
	// TLS material or an unknown compression codec.
	KindConfiguration ErrorKind = iota
	// KindNoEndpoint means the peer list is empty. Reconfigure peers before
	// retrying.
	KindNoEndpoint
	// KindConnection marks a failed channel construction. Another selection
	// attempt may succeed.
	KindConnection
	// KindProtocol marks a response that is missing a required field or
	// carries an unexpected variant. Usually a client/server version mismatch.
	KindProtocol
	// KindServer is a status reported by the server, with its diagnostic
	// message when one is attached.
	KindServer
	// KindStreaming marks a failure of an open streaming session. The session
	// is unusable; open a new one to retry.
	KindStreaming
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNoEndpoint:
		return "no endpoint"
	case KindConnection:
		return "connection"
	case KindProtocol:
		return "protocol"
	case KindServer:
		return "server"
	case KindStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by this package.
type Error struct {
	Kind ErrorKind
	Msg  string

	// Status is set for server-reported failures.
	Status *status.Status

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.cause }

// Retriable reports whether re-attempting the operation, possibly against a
// different endpoint, may succeed without reconfiguring the client. Server
// errors default to retriable; the embedded diagnostic is left to the caller
// to interpret. Streaming errors are retriable only through a new session.
func (e *Error) Retriable() bool {
	switch e.Kind {
	case KindConfiguration, KindNoEndpoint, KindProtocol:
		return false
	default:
		return true
	}
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, cause: cause}
}

// serverErrorKey is the trailer metadata key the server uses to carry its
// own error message alongside the gRPC status.
const serverErrorKey = "inner_error_msg"

// diagnosticMessage pulls the server-side diagnostic out of the trailer
// metadata, falling back to the plain status message.
func diagnosticMessage(st *status.Status, trailer metadata.MD) string {
	if vals := trailer.Get(serverErrorKey); len(vals) > 0 && vals[0] != "" {
		return vals[0]
	}
	return st.Message()
}

func statusOf(err error) *status.Status {
	st, _ := status.FromError(err)
	return st
}

// fromRPCError classifies a failed RPC. The trailer may be nil when none was
// captured.
func fromRPCError(err error, trailer metadata.MD) *Error {
	st := statusOf(err)
	return &Error{
		Kind:   KindServer,
		Msg:    diagnosticMessage(st, trailer),
		Status: st,
		cause:  err,
	}
}
