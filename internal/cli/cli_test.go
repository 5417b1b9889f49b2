// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/gogama/simplehttp/failure"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var server *httptest.Server

var flaky int32

func TestMain(m *testing.M) {
	color.NoColor = true
	server = httptest.NewServer(http.HandlerFunc(handle))
	code := m.Run()
	server.Close()
	os.Exit(code)
}

func handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/json":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[{"name":"first"},{"name":"second"}]}`)
	case "/flaky":
		if atomic.AddInt32(&flaky, 1)%2 == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "recovered")
	default:
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Echo-Method", r.Method)
		w.Header().Set("X-Echo-Request-Id", r.Header.Get("X-Request-Id"))
		w.Header().Set("X-Echo-Custom", r.Header.Get("X-Custom"))
		w.Header().Set("X-Echo-Content-Type", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write(b)
	}
}

func execute(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	code = ExitSuccess
	if err := root.Execute(); err != nil {
		fmt.Fprintf(&errOut, "Error: %v\n", err)
		code = exitCode(err)
	}
	return code, out.String(), errOut.String()
}

func TestGet(t *testing.T) {
	code, out, _ := execute(t, "", "get", server.URL+"/json")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, `{"items":[{"name":"first"},{"name":"second"}]}`, out)
}

func TestGet_Include(t *testing.T) {
	code, out, _ := execute(t, "", "get", server.URL+"/echo", "-i", "-H", "X-Custom: abc")
	assert.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "HTTP 418 I'm a teapot\n"), out)
	assert.Contains(t, out, "X-Echo-Method: GET\n")
	assert.Contains(t, out, "X-Echo-Custom: abc\n")
	assert.True(t, strings.HasSuffix(out, "\n\n"), out)
}

func TestGet_Extract(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		code, out, _ := execute(t, "", "get", server.URL+"/json", "--extract", "items.1.name")
		assert.Equal(t, ExitSuccess, code)
		assert.Equal(t, "second\n", out)
	})
	t.Run("missing", func(t *testing.T) {
		code, _, errOut := execute(t, "", "get", server.URL+"/json", "--extract", "items.5.name")
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, errOut, `no value at path "items.5.name"`)
	})
	t.Run("not json", func(t *testing.T) {
		code, _, errOut := execute(t, "", "post", server.URL+"/echo", "plain", "--extract", "a")
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, errOut, "not valid JSON")
	})
}

func TestGet_RequestID(t *testing.T) {
	code, out, _ := execute(t, "", "head", server.URL+"/echo", "-i", "--request-id")
	assert.Equal(t, ExitSuccess, code)
	var id string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "X-Echo-Request-Id: ") {
			id = strings.TrimPrefix(line, "X-Echo-Request-Id: ")
		}
	}
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "request id %q", id)
}

func TestPost(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		code, out, _ := execute(t, "", "post", server.URL+"/echo", `{"a":1}`, "--content-type", "application/json", "-i")
		assert.Equal(t, ExitSuccess, code)
		assert.Contains(t, out, "X-Echo-Method: POST\n")
		assert.Contains(t, out, "X-Echo-Content-Type: application/json\n")
		assert.True(t, strings.HasSuffix(out, `{"a":1}`), out)
	})
	t.Run("default content type", func(t *testing.T) {
		code, out, _ := execute(t, "", "put", server.URL+"/echo", "x", "-i")
		assert.Equal(t, ExitSuccess, code)
		assert.Contains(t, out, "X-Echo-Method: PUT\n")
		assert.Contains(t, out, "X-Echo-Content-Type: application/x-www-form-urlencoded\n")
	})
	t.Run("stdin", func(t *testing.T) {
		code, out, _ := execute(t, "from stdin", "post", server.URL+"/echo", "@-")
		assert.Equal(t, ExitSuccess, code)
		assert.Equal(t, "from stdin", out)
	})
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.txt")
		require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))
		code, out, _ := execute(t, "", "post", server.URL+"/echo", "@"+path)
		assert.Equal(t, ExitSuccess, code)
		assert.Equal(t, "from file", out)
	})
	t.Run("missing file", func(t *testing.T) {
		code, _, _ := execute(t, "", "post", server.URL+"/echo", "@"+filepath.Join(t.TempDir(), "nope"))
		assert.Equal(t, ExitUsageError, code)
	})
}

func TestRequest(t *testing.T) {
	code, out, _ := execute(t, "", "request", "PATCH", server.URL+"/echo", "patched", "-i")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "X-Echo-Method: PATCH\n")
	assert.True(t, strings.HasSuffix(out, "patched"), out)

	code, _, _ = execute(t, "", "request", "BAD VERB", server.URL+"/echo")
	assert.Equal(t, ExitInputError, code)
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simplehttp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("no_proxy: true\nheaders:\n  - \"X-Custom: from-config\"\n"), 0o600))

	code, out, _ := execute(t, "", "delete", server.URL+"/echo", "--config", path, "-i")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "X-Echo-Method: DELETE\n")
	assert.Contains(t, out, "X-Echo-Custom: from-config\n")

	require.NoError(t, os.WriteFile(path, []byte("dial_timeout: -1s\n"), 0o600))
	code, _, errOut := execute(t, "", "get", server.URL+"/echo", "--config", path)
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, errOut, "timeouts must not be negative")
}

func TestRetries(t *testing.T) {
	atomic.StoreInt32(&flaky, 0)
	code, out, _ := execute(t, "", "get", server.URL+"/flaky", "--retries", "1", "-i")
	assert.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "HTTP 200 OK\n"), out)
	assert.True(t, strings.HasSuffix(out, "recovered"), out)

	atomic.StoreInt32(&flaky, 0)
	code, out, _ = execute(t, "", "get", server.URL+"/flaky", "-i")
	assert.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "HTTP 503 Service Unavailable\n"), out)

	code, _, _ = execute(t, "", "get", server.URL+"/flaky", "--retries", "-1")
	assert.Equal(t, ExitUsageError, code)
}

func TestErrors(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	refused := "http://" + ln.Addr().String() + "/"
	require.NoError(t, ln.Close())

	testCases := []struct {
		name string
		args []string
		code int
	}{
		{"malformed url", []string{"get", "ftp://example.com/"}, ExitInputError},
		{"invalid port", []string{"get", "http://localhost:99999/"}, ExitInputError},
		{"connection refused", []string{"get", refused}, ExitNetworkError},
		{"missing argument", []string{"get"}, ExitUsageError},
		{"extra argument", []string{"get", "http://a/", "b"}, ExitUsageError},
		{"unknown flag", []string{"get", "--bogus", "http://a/"}, ExitUsageError},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			code, _, errOut := execute(t, "", testCase.args...)
			assert.Equal(t, testCase.code, code)
			assert.True(t, strings.HasPrefix(errOut, "Error: "), errOut)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, exitCode(io.EOF))
	assert.Equal(t, ExitInputError, exitCode(failure.New(failure.InputError, "")))
	assert.Equal(t, ExitNetworkError, exitCode(failure.New(failure.BodyReadError, "")))
	assert.Equal(t, ExitConfigError, exitCode(&configError{io.EOF}))
	assert.Equal(t, ExitUsageError, exitCode(&usageError{io.EOF}))
}

func TestRun(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, ExitSuccess, run([]string{"version"}, &out, &errOut))
	assert.Equal(t, ExitInputError, run([]string{"get", "nope"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "Error: simplehttp: the URL is malformed")
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3", "today")
	defer SetVersion("dev", "unknown")
	code, out, _ := execute(t, "", "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "simplehttp version 1.2.3\nBuilt: today\nUser-Agent: simplehttp/0.1\n", out)
}

func TestBench(t *testing.T) {
	code, out, _ := execute(t, "", "bench", server.URL+"/json", "-n", "20", "-c", "4")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Requests:  20 (20 succeeded, 0 failed)\n")
	assert.Contains(t, out, "  200: 20\n")
	assert.Contains(t, out, "p99")

	code, _, _ = execute(t, "", "bench", server.URL+"/json", "-n", "0")
	assert.Equal(t, ExitUsageError, code)
}

func TestBench_Failures(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	refused := "http://" + ln.Addr().String() + "/"
	require.NoError(t, ln.Close())

	code, out, _ := execute(t, "", "bench", refused, "-n", "3", "-c", "1")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Requests:  3 (0 succeeded, 3 failed)\n")
	assert.Contains(t, out, "  ConnectError: 3\n")
}

func TestBench_Metrics(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	code, _, errOut := execute(t, "", "bench", server.URL+"/json", "-n", "2", "-c", "1", "--metrics-addr", addr)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, errOut, "Serving metrics on http://"+addr+"/metrics")
}
