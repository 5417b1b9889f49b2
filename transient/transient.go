// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"io"
	"syscall"

	"github.com/gogama/simplehttp/failure"
)

// A Category is the transience category of a particular error, as
// reported by function Categorize.
//
// The category Not means the error is not transient from the
// perspective of completing an HTTP request successfully, or in other
// words that repeating the request after encountering this error is
// very unlikely to succeed.
//
// All other categories indicate the error is transient, or in other
// words that repeating the request has some prospect of success.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a socket-level timeout. The server may be going
	// through a temporary period of slowness.
	//
	// Function Categorize returns Timeout if the error or any of its
	// wrapped causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED.
	//
	// Although connection refusal may be a permanent condition, it is
	// classified as transient because it can happen if the service
	// running on the remote host is in the process of starting or
	// restarting.
	ConnRefused
	// ConnReset indicates the remote host returned an RST packet on a
	// previously active TCP connection, and corresponds to the POSIX
	// error code ECONNRESET.
	ConnReset
	// Closed indicates the server closed the connection before a
	// complete response was received, without an explicit reset.
	//
	// Function Categorize returns Closed only for failures of kind
	// failure.ReceiveError or failure.BodyReadError whose cause is
	// io.EOF or io.ErrUnexpectedEOF.
	Closed
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"Closed",
}

// Name returns the name of the category.
func (c Category) Name() string {
	return categoryNames[c]
}

// String returns the name of the category.
func (c Category) String() string {
	return c.Name()
}

// Categorize returns the transience category of the given error. All
// non-nil transient errors result in a transience category other than
// Not. A nil error, and an error that is not transient, both produce
// the return value Not.
//
// In assessing transience, Categorize looks at wrapped cause errors
// contained within err, not just err itself.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	switch failure.KindOf(err) {
	case failure.ReceiveError, failure.BodyReadError:
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Closed
		}
	}

	return Not
}

// Is reports whether err is transient, that is whether its category is
// anything other than Not.
func Is(err error) bool {
	return Categorize(err) != Not
}

type hasTimeout interface {
	Timeout() bool
}
