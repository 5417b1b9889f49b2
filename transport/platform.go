// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"

	"github.com/gogama/simplehttp/endpoint"
)

// ErrInsufficientBuffer is returned by Handle.Query when the buffer
// passed in is too small to hold the requested information. Along with
// it, Query returns the number of bytes required.
var ErrInsufficientBuffer = errors.New("simplehttp/transport: insufficient buffer")

// An OpenFlag modifies how Connection.OpenRequest creates a request.
type OpenFlag uint

const (
	// FlagEscapePercent passes the request path through exactly as
	// given, without escaping any of its characters.
	FlagEscapePercent OpenFlag = 1 << iota
	// FlagSecure makes the request use TLS.
	FlagSecure
)

// An Info selects a piece of textual response information to retrieve
// with Handle.Query.
type Info int

const (
	// StatusText is the reason phrase of the status line.
	StatusText Info = iota
	// RawHeaders is the complete response header block, including the
	// status line, with every line terminated by CRLF.
	RawHeaders
)

// A Session is the process-wide entry point to a platform's HTTP
// transport. A Session must be safe for concurrent use by multiple
// goroutines.
type Session interface {
	// Connect establishes a connection to the endpoint's host and
	// port. The returned Connection is owned by the caller, which must
	// close it.
	Connect(ep endpoint.Endpoint) (Connection, error)
}

// A Connection is a platform connection handle.
type Connection interface {
	// OpenRequest creates a request for the given verb and path. The
	// returned Handle is owned by the caller, which must close it
	// before closing the Connection.
	OpenRequest(verb, path string, flags OpenFlag) (Handle, error)
	// Close releases the connection.
	Close() error
}

// A Handle is a platform request handle. Its methods are called in the
// order in which they are declared, each at most once except Query and
// ReadData.
type Handle interface {
	// AddHeaders adds the CRLF-separated header lines in block to the
	// request, replacing any previously added header with the same
	// name.
	AddHeaders(block string) error
	// Send sends the request line, headers, and body. If body is
	// non-nil, its length is declared up front.
	Send(body []byte) error
	// ReceiveResponse waits until the response status line and
	// headers have been received.
	ReceiveResponse() error
	// QueryStatusCode returns the numeric response status code.
	QueryStatusCode() (int, error)
	// Query copies the requested information into buf and returns the
	// number of bytes copied. If buf is too small, Query returns the
	// number of bytes required and ErrInsufficientBuffer.
	Query(info Info, buf []byte) (int, error)
	// ReadData reads the next part of the response body into buf. At
	// the end of the body it returns 0 and a nil error.
	ReadData(buf []byte) (int, error)
	// Close releases the request.
	Close() error
}
