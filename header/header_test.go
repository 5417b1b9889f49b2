// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAccept(t *testing.T) {
	assert.False(t, HasAccept(nil))
	assert.False(t, HasAccept([]string{"X-Foo: bar"}))
	assert.False(t, HasAccept([]string{"accept: text/plain"}), "prefix match is case-sensitive")
	assert.False(t, HasAccept([]string{"Accept-Encoding: gzip"}))
	assert.False(t, HasAccept([]string{"X-Accept: yes"}))
	assert.True(t, HasAccept([]string{"X-Foo: bar", "Accept: text/plain"}))
	assert.True(t, HasAccept([]string{"Accept:"}))
}

func TestCompose(t *testing.T) {
	t.Run("no headers", func(t *testing.T) {
		lines := Compose(false, "", nil)
		assert.Equal(t, []string{"Accept: */*"}, lines)
	})
	t.Run("caller Accept", func(t *testing.T) {
		lines := Compose(false, "", []string{"Accept: text/plain"})
		assert.Equal(t, []string{"Accept: text/plain"}, lines)
	})
	t.Run("body", func(t *testing.T) {
		lines := Compose(true, "application/x-www-form-urlencoded", []string{"X-A: 1", "X-B: 2"})
		assert.Equal(t, []string{
			"Content-Type: application/x-www-form-urlencoded",
			"X-A: 1",
			"X-B: 2",
			"Accept: */*",
		}, lines)
	})
	t.Run("content type ignored without body", func(t *testing.T) {
		lines := Compose(false, "text/plain", []string{"X-A: 1"})
		assert.Equal(t, []string{"X-A: 1", "Accept: */*"}, lines)
	})
	t.Run("lines passed through unvalidated", func(t *testing.T) {
		lines := Compose(false, "", []string{"not a header", ""})
		assert.Equal(t, []string{"not a header", "", "Accept: */*"}, lines)
	})
	t.Run("does not alias", func(t *testing.T) {
		extra := make([]string, 1, 10)
		extra[0] = "Accept: a/b"
		lines := Compose(false, "", extra)
		lines[0] = "changed"
		assert.Equal(t, "Accept: a/b", extra[0])
	})
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "", Join(nil))
	assert.Equal(t, "Accept: */*", Join([]string{"Accept: */*"}))
	assert.Equal(t, "A: 1\r\nB: 2\r\nAccept: */*", Join([]string{"A: 1", "B: 2", "Accept: */*"}))
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"status line only", "HTTP/1.1 204 No Content\r\n\r\n", nil},
		{"single", "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\n", []string{"Content-Type: text/plain"}},
		{"order kept", "HTTP/1.1 200 OK\r\nDate: X\r\nB: 2\r\nA: 1\r\n\r\n", []string{"Date: X", "B: 2", "A: 1"}},
		{"duplicates kept", "HTTP/1.1 200 OK\r\nSet-Cookie: a\r\nSet-Cookie: b\r\n\r\n", []string{"Set-Cookie: a", "Set-Cookie: b"}},
		{"no trailing blank line", "HTTP/1.1 200 OK\r\nA: 1\r\n", []string{"A: 1"}},
		{"unterminated tail dropped", "HTTP/1.1 200 OK\r\nA: 1\r\nB: 2", []string{"A: 1"}},
		{"no CR", "HTTP/1.1 200 OK", nil},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, Split(testCase.raw))
		})
	}
}
