// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"strings"

	"github.com/gogama/simplehttp/failure"
	"golang.org/x/net/http/httpguts"
)

// DefaultContentType is the content type used by the convenience
// request functions when a body is sent without an explicit content
// type.
const DefaultContentType = "application/x-www-form-urlencoded"

// A Spec describes a single HTTP request to be made by the request
// engine.
//
// A Spec is plain data. The engine never modifies it, but it is meant
// to describe exactly one exchange: build a new Spec for each request.
type Spec struct {
	// Verb is the HTTP method, for example "GET" or "POST". Any HTTP
	// token is accepted.
	Verb string

	// URL is the absolute http:// or https:// URL to request. It is
	// decomposed by endpoint.Parse.
	URL string

	// Body is the request body. A nil Body means no body is sent. A
	// non-nil, empty Body sends an explicit zero Content-Length.
	Body []byte

	// ContentType is the media type of Body. It is only sent when Body
	// is non-empty.
	ContentType string

	// Headers contains additional request header lines, each in the
	// form "Name: Value", sent in order. If none of them is an Accept
	// header, "Accept: */*" is added.
	Headers []string
}

// NewSpec returns a new Spec for the given verb, URL, optional body,
// content type, and additional header lines.
//
// Parameter body may be nil (no body), or it may be a string, []byte,
// io.Reader, or io.ReadCloser. If body is an io.Reader, it is read to
// the end and buffered. If body is an io.ReadCloser, it is closed after
// buffering.
//
// If the body is non-empty and contentType is empty,
// DefaultContentType is used.
//
// Any returned error is a *failure.Error of kind failure.InputError.
func NewSpec(verb, url string, body interface{}, contentType string, headers ...string) (*Spec, error) {
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	if len(b) > 0 && contentType == "" {
		contentType = DefaultContentType
	}
	s := &Spec{
		Verb:        verb,
		URL:         url,
		Body:        b,
		ContentType: contentType,
	}
	if len(headers) > 0 {
		s.Headers = make([]string, len(headers))
		copy(s.Headers, headers)
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the Spec has a usable verb and a non-empty URL.
// The URL itself is checked later, when it is parsed, and header lines
// are not checked at all.
//
// Any returned error is a *failure.Error of kind failure.InputError.
func (s *Spec) Validate() error {
	if s == nil {
		return failure.New(failure.InputError, "nil request spec")
	}
	if s.Verb == "" {
		return failure.New(failure.InputError, "expected an HTTP verb")
	}
	if !validVerb(s.Verb) {
		return failure.Errorf(failure.InputError, "invalid HTTP verb %q", s.Verb)
	}
	if s.URL == "" {
		return failure.New(failure.InputError, "expected a URL")
	}
	return nil
}

// HasBody reports whether the Spec carries a non-empty body.
func (s *Spec) HasBody() bool {
	return len(s.Body) > 0
}

func validVerb(verb string) bool {
	return strings.IndexFunc(verb, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}
