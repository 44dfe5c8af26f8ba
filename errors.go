package zephpost

import (
	"errors"
	"fmt"
)

var (
	ErrServerClosed     = errors.New("smtp: server closed")
	ErrHostnameRequired = errors.New("smtp: hostname is required")
)

// ErrorKind enumerates the protocol violations a client can provoke.
type ErrorKind int

const (
	KindUnrecognizedCommand ErrorKind = iota + 1
	KindWrongArgument
	KindUnrecognizedMailParameter
	KindBadSequence
	KindShutdown
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUnrecognizedCommand:
		return "UnrecognizedCommand"
	case KindWrongArgument:
		return "WrongArgument"
	case KindUnrecognizedMailParameter:
		return "UnrecognizedMailParameter"
	case KindBadSequence:
		return "BadSequence"
	case KindShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// ProtocolError is a recoverable client-side protocol violation. Each kind
// carries its own reply code and fixed reply text; Error returns the exact
// reply line (without CRLF) that is written to the client.
type ProtocolError struct {
	Kind ErrorKind
	// Hostname is only used by KindShutdown.
	Hostname string
}

// Protocol error values raised by the parser and the session.
// They are shared; do not modify.
var (
	ErrUnrecognizedCommand       = &ProtocolError{Kind: KindUnrecognizedCommand}
	ErrWrongArgument             = &ProtocolError{Kind: KindWrongArgument}
	ErrUnrecognizedMailParameter = &ProtocolError{Kind: KindUnrecognizedMailParameter}
	ErrBadSequence               = &ProtocolError{Kind: KindBadSequence}
)

// ErrShutdown returns the notice sent when the server is shutting down.
func ErrShutdown(hostname string) *ProtocolError {
	return &ProtocolError{Kind: KindShutdown, Hostname: hostname}
}

// Code returns the reply code for the error.
func (e *ProtocolError) Code() SMTPCode {
	switch e.Kind {
	case KindUnrecognizedCommand:
		return CodeCommandUnrecognized
	case KindWrongArgument:
		return CodeSyntaxError
	case KindUnrecognizedMailParameter:
		return CodeParamsNotRecognized
	case KindBadSequence:
		return CodeBadSequence
	case KindShutdown:
		return CodeServiceUnavailable
	default:
		return CodeLocalError
	}
}

func (e *ProtocolError) message() string {
	switch e.Kind {
	case KindUnrecognizedCommand:
		return "SyntaxError: Command unrecognized"
	case KindWrongArgument:
		return "SyntaxError: Wrong parameters or arguments"
	case KindUnrecognizedMailParameter:
		return "SyntaxError: MAIL FROM parameters unrecognized"
	case KindBadSequence:
		return "LogicalError: Bad sequence of commands"
	case KindShutdown:
		return fmt.Sprintf("%s Service not available, closing transmission channel", e.Hostname)
	default:
		return "Requested action aborted: local error in processing"
	}
}

// Error returns the reply line for the error.
func (e *ProtocolError) Error() string {
	return e.Response().String()
}

// Response returns the reply to send for the error.
func (e *ProtocolError) Response() Response {
	return Response{Code: e.Code(), Message: e.message()}
}

// Is matches any ProtocolError of the same kind.
func (e *ProtocolError) Is(target error) bool {
	t, ok := target.(*ProtocolError)
	return ok && t.Kind == e.Kind
}
