// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"

	"github.com/gogama/simplehttp/failure"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	assert.Equal(t, Not, Categorize(nil))
	assert.Equal(t, Not, Categorize(errors.New("foo")))
	assert.Equal(t, Not, Categorize(wrapper{}))
	assert.Equal(t, Not, Categorize(wrapper{errors.New("bar")}))
	assert.Equal(t, Not, Categorize(failure.New(failure.MalformedURL, "")))
	assert.Equal(t, Timeout, Categorize(syscall.ETIMEDOUT))
	assert.Equal(t, Timeout, Categorize(timeout{}))
	assert.Equal(t, Timeout, Categorize(failure.Wrap(failure.ReceiveError, "ReceiveResponse", syscall.ETIMEDOUT)))
	assert.Equal(t, Timeout, Categorize(failure.Wrap(failure.BodyReadError, "ReadData", timeout{})))
	assert.Equal(t, Timeout, Categorize(wrapper{wrapper{timeout{}}}))
	assert.Equal(t, Timeout, Categorize(timeoutWrapper{true, syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Categorize(syscall.ECONNRESET))
	assert.Equal(t, ConnReset, Categorize(wrapper{syscall.ECONNRESET}))
	assert.Equal(t, ConnReset, Categorize(timeoutWrapper{false, syscall.ECONNRESET}))
	assert.Equal(t, ConnRefused, Categorize(syscall.ECONNREFUSED))
	assert.Equal(t, ConnRefused, Categorize(failure.Wrap(failure.ConnectError, "Connect", wrapper{syscall.ECONNREFUSED})))
	assert.Equal(t, Closed, Categorize(failure.Wrap(failure.ReceiveError, "ReceiveResponse", io.EOF)))
	assert.Equal(t, Closed, Categorize(failure.Wrap(failure.BodyReadError, "ReadData", io.ErrUnexpectedEOF)))
	assert.Equal(t, Not, Categorize(failure.Wrap(failure.SendError, "SendRequest", io.EOF)))
	assert.Equal(t, Not, Categorize(io.EOF))
}

func TestIs(t *testing.T) {
	assert.False(t, Is(nil))
	assert.False(t, Is(errors.New("foo")))
	assert.True(t, Is(syscall.ECONNRESET))
}

func TestCategory_Name(t *testing.T) {
	assert.Equal(t, "Not", Not.Name())
	assert.Equal(t, "Timeout", Timeout.String())
	assert.Equal(t, "Closed", Closed.Name())
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
