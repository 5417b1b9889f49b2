// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package simplehttp

import (
	"time"

	"github.com/gogama/simplehttp/endpoint"
	"github.com/gogama/simplehttp/header"
	"github.com/gogama/simplehttp/request"
	"github.com/gogama/simplehttp/transport"
)

var emptyHandlers = HandlerGroup{}

// A Client is a synchronous HTTP request engine. Its zero value is a
// valid configuration.
//
// The zero value client uses transport.DefaultSession() as the
// platform session and an empty handler group (no event
// handlers/plug-ins).
//
// Each request is executed from start to finish on the calling
// goroutine, over a connection which is opened for the request and
// closed when it completes. Client is safe for concurrent use by
// multiple goroutines, provided its Session is.
//
// On top of the transport mechanics provided by the Session, Client
// adds the following features:
//
// • Client decomposes the request URL into an endpoint, rejecting
// anything that is not an absolute http:// or https:// URL;
//
// • Client composes the request headers, adding a Content-Type header
// when there is a body and an "Accept: */*" header when the caller did
// not supply an Accept header;
//
// • Client reads and buffers the entire response, including the status
// text, header lines, and body, into a request.Response;
//
// • Client invokes user-provided handler functions at designated
// plug-in points within the execution, allowing new features to be
// mixed in from outside libraries; and
//
// • Client implements the simplehttp.Executor interface.
//
// Client never retries. Every failure is returned to the caller as a
// *failure.Error whose Kind identifies the failed stage. To retry, see
// package retry.
type Client struct {
	// Session specifies the platform used to connect to servers and
	// exchange requests and responses.
	//
	// If Session is nil, transport.DefaultSession() is used.
	Session transport.Session
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during execution of a request.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
}

// Do executes a request and returns the execution record.
//
// The returned Execution is never nil. If an error is returned, the
// Execution's Err field references the same error and its Response is
// nil. Otherwise its Response is complete: the body is non-nil, though
// it may be empty. A non-2XX status code does not result in an error.
//
// Any returned error has the type *failure.Error. Do panics if s is
// nil.
func (c *Client) Do(s *request.Spec) (*request.Execution, error) {
	if s == nil {
		panic("simplehttp: nil spec")
	}

	e := request.Execution{
		Spec: s,
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecute, &e)
	e.Start = time.Now()

	resp, err := c.execute(&e, handlers)
	if err != nil {
		e.Err = err
	} else {
		e.Response = resp
	}

	e.End = time.Now()
	handlers.run(AfterExecute, &e)
	return &e, e.Err
}

// Execute executes a request and returns the complete response. No
// partial response is ever returned: if any stage fails, the response
// is nil and the error, of type *failure.Error, describes the failed
// stage.
//
// For simple use cases, the Get, Head, Delete, Post, Put and Request
// methods may prove easier to use than Execute.
func (c *Client) Execute(s *request.Spec) (*request.Response, error) {
	e, err := c.Do(s)
	if err != nil {
		return nil, err
	}
	return e.Response, nil
}

func (c *Client) execute(e *request.Execution, handlers *HandlerGroup) (*request.Response, error) {
	s := e.Spec
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ep, err := endpoint.Parse(s.URL)
	if err != nil {
		return nil, err
	}
	e.Endpoint = ep

	tc := transport.NewClient(c.session())
	defer func() {
		_ = tc.Close()
	}()

	if err = tc.Connect(ep); err != nil {
		return nil, err
	}
	if err = tc.Open(s.Verb, ep.Path, ep.Secure); err != nil {
		return nil, err
	}
	if err = attachHeaders(tc, s, e); err != nil {
		return nil, err
	}

	handlers.run(BeforeSend, e)
	if err = tc.Send(s.Body); err != nil {
		return nil, err
	}
	if err = tc.Receive(); err != nil {
		return nil, err
	}

	code, err := tc.StatusCode()
	if err != nil {
		return nil, err
	}
	e.SetStatusCode(code)
	text, err := tc.StatusText()
	if err != nil {
		return nil, err
	}
	raw, err := tc.RawHeaders()
	if err != nil {
		return nil, err
	}

	handlers.run(BeforeReadBody, e)
	body, err := tc.ReadBody()
	if err != nil {
		return nil, err
	}

	return &request.Response{
		Body:       body,
		StatusCode: code,
		StatusText: text,
		Headers:    header.Split(raw),
	}, nil
}

// attachHeaders attaches the Content-Type line, when there is one, as
// its own block, followed by the remaining lines as a second block.
func attachHeaders(tc *transport.Client, s *request.Spec, e *request.Execution) error {
	contentType := s.ContentType
	if contentType == "" {
		contentType = request.DefaultContentType
	}
	lines := header.Compose(s.HasBody(), contentType, s.Headers)
	e.Headers = lines

	rest := lines
	if s.HasBody() {
		if err := tc.AttachHeaders(lines[0]); err != nil {
			return err
		}
		rest = lines[1:]
	}
	return tc.AttachHeaders(header.Join(rest))
}

func (c *Client) session() transport.Session {
	if c.Session == nil {
		return transport.DefaultSession()
	}

	return c.Session
}

// Get issues a GET to the specified URL with optional extra header
// lines, using the same mechanics as Execute.
func (c *Client) Get(url string, headers ...string) (*request.Response, error) {
	return Get(c, url, headers...)
}

// Head issues a HEAD to the specified URL with optional extra header
// lines, using the same mechanics as Execute.
func (c *Client) Head(url string, headers ...string) (*request.Response, error) {
	return Head(c, url, headers...)
}

// Delete issues a DELETE to the specified URL with optional extra
// header lines, using the same mechanics as Execute.
func (c *Client) Delete(url string, headers ...string) (*request.Response, error) {
	return Delete(c, url, headers...)
}

// Post issues a POST to the specified URL, using the same mechanics as
// Execute.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.BodyBytes, namely: string; []byte;
// io.Reader; and io.ReadCloser. If contentType is empty,
// request.DefaultContentType is used.
func (c *Client) Post(url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	return Post(c, url, body, contentType, headers...)
}

// Put issues a PUT to the specified URL, with the same body and
// content type rules as Post.
func (c *Client) Put(url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	return Put(c, url, body, contentType, headers...)
}

// Request issues a request with an arbitrary verb, with the same body
// and content type rules as Post.
func (c *Client) Request(verb, url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	return Request(c, verb, url, body, contentType, headers...)
}
