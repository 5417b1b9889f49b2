// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "strings"

// A Response is a complete, fully-buffered HTTP response.
type Response struct {
	// Body is the complete response body. It is never nil in a
	// Response returned by the engine, but may be empty.
	Body []byte

	// StatusCode is the numeric status code, for example 200.
	StatusCode int

	// StatusText is the reason phrase from the status line, for
	// example "OK".
	StatusText string

	// Headers contains the response header lines, each in the form
	// "Name: Value", in the order they were received. The status line
	// is not included.
	Headers []string
}

// Header returns the value of the first header line whose name matches
// name case-insensitively, with surrounding whitespace trimmed. If
// there is no such line, the empty string is returned.
func (r *Response) Header(name string) string {
	for _, line := range r.Headers {
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(line[:i]), name) {
			return strings.TrimSpace(line[i+1:])
		}
	}
	return ""
}

// OK reports whether the status code is in the 2XX range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
