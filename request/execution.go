// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"time"

	"github.com/gogama/simplehttp/endpoint"
	"github.com/gogama/simplehttp/transient"
)

// An Execution represents the state of a single execution of a Spec.
//
// When a request is executed, an Execution is created for it. The
// Execution is updated as the execution progresses (for example when
// the URL has been parsed, or when the response becomes available) and
// is ultimately returned by the engine's Do method.
//
// Event handlers and retry policies may set values on an Execution
// using its SetValue method and read them back using the Value method.
// However, they should treat the structure's exported field values as
// immutable and leave them unmodified.
type Execution struct {
	// Spec specifies the request being executed. It is never nil.
	Spec *Spec

	// Endpoint is the parsed form of Spec.URL. It contains the zero
	// value until the URL has been parsed successfully.
	Endpoint endpoint.Endpoint

	// Start is the start time of the execution. It is assigned a
	// non-zero value when the execution starts, and this value remains
	// constant thereafter.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends, when it is set to the current time.
	End time.Time

	// Attempt is the zero-based number of the attempt this execution
	// represents. The engine never retries, so Attempt is always zero
	// for executions run directly by the engine. Package retry, which
	// runs one execution per attempt, numbers the attempts.
	Attempt int

	// Headers contains the complete list of header lines attached to
	// the outgoing request, including synthesized ones. It is nil
	// until the headers have been composed.
	Headers []string

	// Response is the complete response. It is nil until the whole
	// response, including the body, has been read, and it remains nil
	// if the execution failed.
	Response *Response

	// Err is the error which ended the execution, or nil. Whenever Err
	// is non-nil, it has the type *failure.Error, and Response is nil.
	Err error

	// statusCode holds the status code as soon as it is known, which
	// is before the body is read. It is zero before then.
	statusCode int

	data context.Context
}

// StatusCode returns the status code of the HTTP response. If the
// status code is not yet known, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response != nil {
		return e.Response.StatusCode
	}

	return e.statusCode
}

// SetStatusCode records the status code of a response whose body has
// not yet been read. It is intended for use by the engine.
func (e *Execution) SetStatusCode(code int) {
	e.statusCode = code
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start. The
// return value is thus monotonically increasing over the life of
// the execution, and becomes static when the execution has ended.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
//
// If the return value is true, End is a non-zero time, and there will
// be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout, for example a socket read timeout set on
// the transport session.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same execution.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
