// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package header builds outgoing request header blocks and splits
// incoming response header blocks.
//
// Headers are handled as whole "Name: Value" lines, never as parsed
// name/value pairs, so that callers see exactly what goes over the
// wire and in exactly the wire order.
package header

import "strings"

const (
	// CRLF separates the lines of a header block.
	CRLF = "\r\n"

	acceptPrefix = "Accept:"

	// DefaultAccept is appended to the outgoing headers when the caller
	// did not supply an Accept header.
	DefaultAccept = "Accept: */*"
)

// ContentType returns the Content-Type header line for the given media
// type.
func ContentType(mediaType string) string {
	return "Content-Type: " + mediaType
}

// HasAccept reports whether any line in lines starts with the literal,
// case-sensitive prefix "Accept:".
func HasAccept(lines []string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, acceptPrefix) {
			return true
		}
	}
	return false
}

// Compose returns the complete, ordered list of header lines to attach
// to an outgoing request.
//
// If hasBody is true, a Content-Type line for contentType comes first.
// The caller-supplied lines in extra follow in order, unvalidated. If
// none of them is an Accept header, DefaultAccept is appended last.
//
// The returned slice never aliases extra.
func Compose(hasBody bool, contentType string, extra []string) []string {
	lines := make([]string, 0, len(extra)+2)
	if hasBody {
		lines = append(lines, ContentType(contentType))
	}
	lines = append(lines, extra...)
	if !HasAccept(extra) {
		lines = append(lines, DefaultAccept)
	}
	return lines
}

// Join joins header lines into a single CRLF-separated block. No
// trailing CRLF is added.
func Join(lines []string) string {
	return strings.Join(lines, CRLF)
}

// Split splits a raw CRLF-delimited response header block into
// individual header lines, discarding the leading status line and any
// empty lines.
//
// Split assumes each CR is followed by an LF. Text following the last
// CR is not returned, since a well-formed block always ends with a
// blank line.
func Split(raw string) []string {
	var lines []string
	start := 0
	first := true
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\r' {
			continue
		}
		if first {
			first = false
		} else if i > start {
			lines = append(lines, raw[start:i])
		}
		start = i + 2
	}
	return lines
}
