// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package simplehttp

import (
	"github.com/gogama/simplehttp/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes a request and returns the execution record (and error,
// if any). Client implements the Doer interface, and any other Doer
// implementation must behave substantially the same as Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(s *request.Spec) (*request.Execution, error)
}

// Executer is the interface that wraps the basic Execute method.
//
// Execute executes a request and returns the complete response (or an
// error, but never both). Client implements the Executer interface.
//
// Any Doer can be used to emulate an Executer via the Execute function.
type Executer interface {
	Execute(s *request.Spec) (*request.Response, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get issues a GET to the specified URL with optional extra header
// lines and returns the response. Client implements the Getter
// interface, and any other Getter implementation must behave
// substantially the same as Client.Get.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string, headers ...string) (*request.Response, error)
}

// Header is the interface that wraps the basic Head method.
//
// Any Doer can be used to emulate a Header via the Head function.
type Header interface {
	Head(url string, headers ...string) (*request.Response, error)
}

// Deleter is the interface that wraps the basic Delete method.
//
// Any Doer can be used to emulate a Deleter via the Delete function.
type Deleter interface {
	Delete(url string, headers ...string) (*request.Response, error)
}

// Poster is the interface that wraps the basic Post method.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.BodyBytes, namely: string; []byte;
// io.Reader; and io.ReadCloser.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url string, body interface{}, contentType string, headers ...string) (*request.Response, error)
}

// Putter is the interface that wraps the basic Put method.
//
// Any Doer can be used to emulate a Putter via the Put function.
type Putter interface {
	Put(url string, body interface{}, contentType string, headers ...string) (*request.Response, error)
}

// Requester is the interface that wraps the basic Request method, which
// issues a request with an arbitrary verb.
//
// Any Doer can be used to emulate a Requester via the Request function.
type Requester interface {
	Request(verb, url string, body interface{}, contentType string, headers ...string) (*request.Response, error)
}

// Executor is the interface that groups the basic Do, Execute, Get,
// Head, Delete, Post, Put and Request methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Executer
	Getter
	Header
	Deleter
	Poster
	Putter
	Requester
}

// Execute uses the specified Doer to execute a request, returning the
// response only if the execution succeeded.
func Execute(d Doer, s *request.Spec) (*request.Response, error) {
	e, err := d.Do(s)
	if err != nil {
		return nil, err
	}
	return e.Response, nil
}

// Get uses the specified Doer to issue a GET to the specified URL.
func Get(d Doer, url string, headers ...string) (*request.Response, error) {
	return Request(d, "GET", url, nil, "", headers...)
}

// Head uses the specified Doer to issue a HEAD to the specified URL.
func Head(d Doer, url string, headers ...string) (*request.Response, error) {
	return Request(d, "HEAD", url, nil, "", headers...)
}

// Delete uses the specified Doer to issue a DELETE to the specified
// URL.
func Delete(d Doer, url string, headers ...string) (*request.Response, error) {
	return Request(d, "DELETE", url, nil, "", headers...)
}

// Post uses the specified Doer to issue a POST to the specified URL.
//
// If contentType is empty and the body is non-empty,
// request.DefaultContentType is used.
func Post(d Doer, url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	return Request(d, "POST", url, body, contentType, headers...)
}

// Put uses the specified Doer to issue a PUT to the specified URL.
func Put(d Doer, url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	return Request(d, "PUT", url, body, contentType, headers...)
}

// Request uses the specified Doer to issue a request with the given
// verb. The spec is built by request.NewSpec, so malformed input is
// reported without calling d.
func Request(d Doer, verb, url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	s, err := request.NewSpec(verb, url, body, contentType, headers...)
	if err != nil {
		return nil, err
	}
	return Execute(d, s)
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("simplehttp: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(s *request.Spec) (*request.Execution, error) {
	return i.doer.Do(s)
}

func (i inflated) Execute(s *request.Spec) (*request.Response, error) {
	return Execute(i.doer, s)
}

func (i inflated) Get(url string, headers ...string) (*request.Response, error) {
	return Get(i.doer, url, headers...)
}

func (i inflated) Head(url string, headers ...string) (*request.Response, error) {
	return Head(i.doer, url, headers...)
}

func (i inflated) Delete(url string, headers ...string) (*request.Response, error) {
	return Delete(i.doer, url, headers...)
}

func (i inflated) Post(url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	return Post(i.doer, url, body, contentType, headers...)
}

func (i inflated) Put(url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	return Put(i.doer, url, body, contentType, headers...)
}

func (i inflated) Request(verb, url string, body interface{}, contentType string, headers ...string) (*request.Response, error) {
	return Request(i.doer, verb, url, body, contentType, headers...)
}
