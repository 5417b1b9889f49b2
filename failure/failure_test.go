// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 14)
	assert.Equal(t, InputError, kinds[0])
	assert.Equal(t, BodyReadError, kinds[len(kinds)-1])
	for _, k := range kinds {
		assert.NotEmpty(t, k.Name())
		assert.NotContains(t, k.Name(), "Kind(")
		assert.Contains(t, k.Error(), "simplehttp: ")
	}
	assert.Equal(t, "ConnectError", ConnectError.String())
	assert.Equal(t, "Kind(0)", Kind(0).Name())
	assert.Equal(t, "Kind(99)", Kind(99).Name())
	assert.Equal(t, "simplehttp: unknown failure", Kind(99).Error())
}

func TestError(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := New(MalformedURL, "expected http:// or https:// at the beginning")
		assert.EqualError(t, err, "simplehttp: the URL is malformed, expected http:// or https:// at the beginning")
		assert.Nil(t, err.Unwrap())
	})
	t.Run("formatted", func(t *testing.T) {
		err := Errorf(InvalidPort, "must be between 0 and 65535, got %d", 99999)
		assert.EqualError(t, err, "simplehttp: invalid port specified in the URL, must be between 0 and 65535, got 99999")
	})
	t.Run("wrapped with code", func(t *testing.T) {
		cause := fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED)
		err := Wrap(ConnectError, "Connect", cause)
		assert.Equal(t, uint32(syscall.ECONNREFUSED), err.Code)
		assert.Equal(t, fmt.Sprintf("simplehttp: failed to start connecting to the server, Connect() failed with error code 0x%x: %s",
			uint32(syscall.ECONNREFUSED), cause.Error()), err.Error())
		assert.Same(t, cause, errors.Unwrap(err))
		assert.True(t, errors.Is(err, syscall.ECONNREFUSED))
	})
	t.Run("wrapped without code", func(t *testing.T) {
		err := Wrap(SendError, "SendRequest", errors.New("broken"))
		assert.Equal(t, uint32(0), err.Code)
		assert.EqualError(t, err, "simplehttp: failed to send request, SendRequest() failed: broken")
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(ReceiveError, "ReceiveResponse", errors.New("eof")))
	assert.True(t, errors.Is(err, ReceiveError))
	assert.False(t, errors.Is(err, SendError))
	assert.False(t, errors.Is(errors.New("plain"), ReceiveError))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.Equal(t, Kind(0), KindOf(errors.New("foo")))
	assert.Equal(t, HeadersError, KindOf(New(HeadersError, "")))
	assert.Equal(t, BodyReadError, KindOf(fmt.Errorf("x: %w", New(BodyReadError, ""))))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, uint32(0), CodeOf(nil))
	assert.Equal(t, uint32(0), CodeOf(errors.New("foo")))
	assert.Equal(t, uint32(syscall.ECONNRESET), CodeOf(syscall.ECONNRESET))
	assert.Equal(t, uint32(7), CodeOf(&Error{Kind: SendError, Code: 7}))
	assert.Equal(t, uint32(syscall.EPIPE), CodeOf(Wrap(SendError, "SendRequest", syscall.EPIPE)))
}
