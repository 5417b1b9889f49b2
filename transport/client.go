// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"
	"fmt"

	"github.com/gogama/simplehttp/endpoint"
	"github.com/gogama/simplehttp/failure"
)

// BodyBufferSize is the size of the buffer used for each read of the
// response body.
const BodyBufferSize = 8 << 10

// Names of the platform operations, as reported in failure.Error.Op.
const (
	OpConnect       = "Connect"
	OpOpenRequest   = "OpenRequest"
	OpAddHeaders    = "AddRequestHeaders"
	OpSendRequest   = "SendRequest"
	OpReceive       = "ReceiveResponse"
	OpQueryHeaders  = "QueryHeaders"
	OpReadData      = "ReadData"
	OpCloseHandle   = "CloseHandle"
	errPrefix       = "simplehttp/transport: "
	errNotConnected = errPrefix + "not connected"
	errNotOpen      = errPrefix + "no open request"
)

// A Client performs the stages of a single HTTP exchange against a
// platform Session, and owns the platform handles acquired on the way.
//
// A Client is used for at most one request. It is not safe for
// concurrent use. Calling a stage out of order, or connecting twice,
// is a programming error and panics.
type Client struct {
	session Session
	conn    Connection
	req     Handle
	used    bool
}

// NewClient returns a new Client which acquires its handles from s.
func NewClient(s Session) *Client {
	if s == nil {
		panic(errPrefix + "nil session")
	}
	return &Client{session: s}
}

// Connect establishes a connection to the endpoint. Failure is a
// failure.ConnectError.
func (c *Client) Connect(ep endpoint.Endpoint) error {
	if c.used {
		panic(errPrefix + "client already used")
	}
	c.used = true
	conn, err := c.session.Connect(ep)
	if err != nil {
		return failure.Wrap(failure.ConnectError, OpConnect, err)
	}
	c.conn = conn
	return nil
}

// Open creates the request for verb and path. The path is passed
// through to the platform unmodified. If secure is true, the request
// uses TLS. Failure is a failure.OpenError.
func (c *Client) Open(verb, path string, secure bool) error {
	if c.conn == nil {
		panic(errNotConnected)
	}
	if c.req != nil {
		panic(errPrefix + "request already open")
	}
	flags := FlagEscapePercent
	if secure {
		flags |= FlagSecure
	}
	req, err := c.conn.OpenRequest(verb, path, flags)
	if err != nil {
		return failure.Wrap(failure.OpenError, OpOpenRequest, err)
	}
	c.req = req
	return nil
}

// AttachHeaders adds a CRLF-joined block of header lines to the
// request. Failure is a failure.HeaderError.
func (c *Client) AttachHeaders(block string) error {
	if err := c.handle().AddHeaders(block); err != nil {
		return failure.Wrap(failure.HeaderError, OpAddHeaders, err)
	}
	return nil
}

// Send sends the request with the given body, which may be nil. Failure
// is a failure.SendError.
func (c *Client) Send(body []byte) error {
	if err := c.handle().Send(body); err != nil {
		return failure.Wrap(failure.SendError, OpSendRequest, err)
	}
	return nil
}

// Receive waits for the response status line and headers. Failure is a
// failure.ReceiveError.
func (c *Client) Receive() error {
	if err := c.handle().ReceiveResponse(); err != nil {
		return failure.Wrap(failure.ReceiveError, OpReceive, err)
	}
	return nil
}

// StatusCode returns the numeric response status code. Failure is a
// failure.StatusQueryError.
func (c *Client) StatusCode() (int, error) {
	code, err := c.handle().QueryStatusCode()
	if err != nil {
		return 0, failure.Wrap(failure.StatusQueryError, OpQueryHeaders, err)
	}
	return code, nil
}

// StatusText returns the response reason phrase. Failure to determine
// its size is a failure.StatusTextSizeError, and failure to retrieve it
// is a failure.StatusTextError.
func (c *Client) StatusText() (string, error) {
	return c.query(StatusText, failure.StatusTextSizeError, failure.StatusTextError)
}

// RawHeaders returns the complete CRLF-delimited response header
// block, status line included. Failure to determine its size is a
// failure.HeadersSizeError, and failure to retrieve it is a
// failure.HeadersError.
func (c *Client) RawHeaders() (string, error) {
	return c.query(RawHeaders, failure.HeadersSizeError, failure.HeadersError)
}

func (c *Client) query(info Info, sizeKind, fetchKind failure.Kind) (string, error) {
	h := c.handle()
	size, err := h.Query(info, nil)
	if err != nil && !errors.Is(err, ErrInsufficientBuffer) {
		return "", failure.Wrap(sizeKind, OpQueryHeaders, err)
	}
	if size < 0 {
		return "", failure.Wrap(sizeKind, OpQueryHeaders, fmt.Errorf("negative size %d", size))
	}
	if size == 0 {
		return "", nil
	}
	buf := make([]byte, size)
	n, err := h.Query(info, buf)
	if err != nil {
		return "", failure.Wrap(fetchKind, OpQueryHeaders, err)
	}
	return string(buf[:n]), nil
}

// ReadBody reads the response body to completion. On failure, which is
// a failure.BodyReadError, whatever was read so far is discarded.
//
// The returned slice is never nil.
func (c *Client) ReadBody() ([]byte, error) {
	h := c.handle()
	body := []byte{}
	buf := make([]byte, BodyBufferSize)
	for {
		n, err := h.ReadData(buf)
		if err != nil {
			return nil, failure.Wrap(failure.BodyReadError, OpReadData, err)
		}
		if n == 0 {
			return body, nil
		}
		body = append(body, buf[:n]...)
	}
}

// Close releases the request handle, then the connection handle. Each
// handle is released at most once, so Close may be called repeatedly.
// The first release error, if any, is returned.
func (c *Client) Close() error {
	var first error
	if c.req != nil {
		if err := c.req.Close(); err != nil {
			first = failure.Wrap(failure.OpenError, OpCloseHandle, err)
		}
		c.req = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && first == nil {
			first = failure.Wrap(failure.ConnectError, OpCloseHandle, err)
		}
		c.conn = nil
	}
	return first
}

func (c *Client) handle() Handle {
	if c.req == nil {
		panic(errNotOpen)
	}
	return c.req
}
