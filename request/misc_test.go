// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gogama/simplehttp/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBodyBytes(t *testing.T) {
	var b []byte
	var err error
	t.Run("happy path", func(t *testing.T) {
		b, err = BodyBytes(nil)
		assert.Nil(t, b)
		assert.NoError(t, err)
		b, err = BodyBytes("foo")
		assert.Equal(t, []byte("foo"), b)
		assert.NoError(t, err)
		b2 := []byte("bar")
		b, err = BodyBytes(b2)
		assert.Equal(t, []byte("bar"), b)
		assert.NoError(t, err)
		b, err = BodyBytes(strings.NewReader("baz"))
		assert.Equal(t, []byte("baz"), b)
		assert.NoError(t, err)
		b, err = BodyBytes(io.NopCloser(bytes.NewReader(b2)))
		assert.Equal(t, []byte("bar"), b)
		assert.NoError(t, err)
		b, err = BodyBytes(strings.NewReader(""))
		assert.NotNil(t, b)
		assert.Empty(t, b)
		assert.NoError(t, err)
	})
	t.Run("bad type", func(t *testing.T) {
		b, err = BodyBytes(10)
		assert.Nil(t, b)
		assert.True(t, errors.Is(err, failure.InputError))
		assert.Contains(t, err.Error(), badBodyTypeMsg)
		assert.Contains(t, err.Error(), "got int")
	})
	t.Run("reader errors", func(t *testing.T) {
		expectedErr := errors.New("ham")
		t.Run("Read", func(t *testing.T) {
			m := &mockReadCloser{}
			m.Test(t)
			m.On("Read", mock.Anything).Return(10, expectedErr).Once()
			m.On("Close").Return(nil).Once()
			b, err = BodyBytes(m)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, failure.InputError))
			assert.True(t, errors.Is(err, expectedErr))
			m.AssertExpectations(t)
		})
		t.Run("Close", func(t *testing.T) {
			m := &mockReadCloser{}
			m.Test(t)
			m.On("Read", mock.Anything).Return(0, io.EOF).Once()
			m.On("Close").Return(expectedErr).Once()
			b, err = BodyBytes(m)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, failure.InputError))
			assert.True(t, errors.Is(err, expectedErr))
			m.AssertExpectations(t)
		})
	})
}

type mockReadCloser struct {
	mock.Mock
}

func (m *mockReadCloser) Read(p []byte) (n int, err error) {
	args := m.Called(p)
	n = args.Int(0)
	err = args.Error(1)
	return
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
