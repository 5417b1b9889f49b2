// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// A Kind identifies the stage of request execution at which an error
// occurred. Kind implements error so that it may be used as the target
// of errors.Is:
//
//	if errors.Is(err, failure.ConnectError) {
//		...
//	}
type Kind int

const (
	// InputError indicates malformed caller input, such as an empty
	// verb or a body of an unsupported type.
	InputError Kind = iota + 1
	// MalformedURL indicates the URL does not begin with http:// or
	// https://, or has no server name.
	MalformedURL
	// InvalidPort indicates the URL contains a port which is not a
	// number in the range [0, 65535].
	InvalidPort
	// ConnectError indicates the connection to the server could not
	// be established.
	ConnectError
	// OpenError indicates the request object could not be created.
	OpenError
	// HeaderError indicates the request headers could not be attached
	// to the request.
	HeaderError
	// SendError indicates the request could not be sent.
	SendError
	// ReceiveError indicates the response status line and headers
	// could not be received.
	ReceiveError
	// StatusQueryError indicates the numeric status code could not be
	// retrieved.
	StatusQueryError
	// StatusTextSizeError indicates the size of the status text could
	// not be determined.
	StatusTextSizeError
	// StatusTextError indicates the status text could not be
	// retrieved.
	StatusTextError
	// HeadersSizeError indicates the size of the raw response header
	// block could not be determined.
	HeadersSizeError
	// HeadersError indicates the raw response header block could not
	// be retrieved.
	HeadersError
	// BodyReadError indicates the response body could not be read to
	// completion.
	BodyReadError

	kindSentinel
)

var kindNames = [...]string{
	"",
	"InputError",
	"MalformedURL",
	"InvalidPort",
	"ConnectError",
	"OpenError",
	"HeaderError",
	"SendError",
	"ReceiveError",
	"StatusQueryError",
	"StatusTextSizeError",
	"StatusTextError",
	"HeadersSizeError",
	"HeadersError",
	"BodyReadError",
}

var kindDescriptions = [...]string{
	"",
	"invalid input",
	"the URL is malformed",
	"invalid port specified in the URL",
	"failed to start connecting to the server",
	"failed to create request",
	"failed to set the request headers",
	"failed to send request",
	"failed to receive response",
	"failed to retrieve response status code",
	"failed to retrieve response status text size",
	"failed to retrieve response status text",
	"failed to retrieve response headers size",
	"failed to retrieve response headers",
	"failed to read HTTP response data",
}

// Kinds returns every defined Kind, in the order in which the stages
// they describe occur during request execution.
func Kinds() []Kind {
	kinds := make([]Kind, 0, int(kindSentinel)-1)
	for k := InputError; k < kindSentinel; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Name returns the name of the kind, for example "ConnectError".
func (k Kind) Name() string {
	if k <= 0 || k >= kindSentinel {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// String returns the name of the kind.
func (k Kind) String() string {
	return k.Name()
}

// Error returns a short description of the kind.
func (k Kind) Error() string {
	if k <= 0 || k >= kindSentinel {
		return "simplehttp: unknown failure"
	}
	return "simplehttp: " + kindDescriptions[k]
}

// An Error describes a failed request execution. It carries the kind of
// failure, the name of the failing platform operation (if any), the
// platform error code (if known), and the underlying cause.
//
// The message returned by Error is meant to be shown to humans as-is.
type Error struct {
	// Kind is the stage at which the failure happened.
	Kind Kind
	// Op names the failing platform operation, for example
	// "SendRequest". Empty for failures detected before any platform
	// operation was attempted.
	Op string
	// Code is the platform error code, or zero if none is known.
	Code uint32
	// Msg is optional extra detail.
	Msg string
	// Err is the underlying cause, possibly nil.
	Err error
}

// New returns an Error of the given kind carrying a detail message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Errorf returns an Error of the given kind whose detail message is
// formatted according to format.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap returns an Error of the given kind recording that platform
// operation op failed with err. If err, or any error it wraps, is a
// syscall.Errno, its value becomes the error code.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{
		Kind: kind,
		Op:   op,
		Code: codeOf(err),
		Err:  err,
	}
}

// Error returns the human-readable message.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(", ")
		b.WriteString(e.Msg)
	}
	if e.Op != "" {
		fmt.Fprintf(&b, ", %s() failed", e.Op)
		if e.Code != 0 {
			fmt.Fprintf(&b, " with error code 0x%x", e.Code)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or zero
// if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CodeOf returns the platform error code recorded in err's chain, or
// zero if there is none.
func CodeOf(err error) uint32 {
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	return codeOf(err)
}

func codeOf(err error) uint32 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	return 0
}
