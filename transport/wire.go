// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	errHeaderTooLarge = errors.New(errPrefix + "response header too large")
	errChunkFormat    = errors.New(errPrefix + "invalid chunk format")
)

// A responseHead is the parsed status line and header block of a
// response, along with its raw text.
type responseHead struct {
	proto  string
	code   int
	reason string
	lines  []string
	raw    string
}

func (h *responseHead) get(name string) (string, bool) {
	for _, line := range h.lines {
		i := strings.IndexByte(line, ':')
		if i > 0 && strings.EqualFold(strings.TrimSpace(line[:i]), name) {
			return strings.TrimSpace(line[i+1:]), true
		}
	}
	return "", false
}

func (h *responseHead) chunked() bool {
	for _, line := range h.lines {
		i := strings.IndexByte(line, ':')
		if i > 0 && strings.EqualFold(strings.TrimSpace(line[:i]), "Transfer-Encoding") &&
			strings.Contains(strings.ToLower(line[i+1:]), "chunked") {
			return true
		}
	}
	return false
}

// readHead reads one status line and header block. At most limit bytes
// of head text are accepted; a non-positive limit means no limit.
func readHead(br *bufio.Reader, limit int) (*responseHead, error) {
	budget := limit
	status, err := readLine(br, &budget)
	if err != nil {
		return nil, err
	}
	proto, code, reason, err := parseStatusLine(status)
	if err != nil {
		return nil, err
	}
	h := &responseHead{proto: proto, code: code, reason: reason}
	var raw strings.Builder
	raw.WriteString(status)
	raw.WriteString("\r\n")
	for {
		line, err := readLine(br, &budget)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		raw.WriteString(line)
		raw.WriteString("\r\n")
		if line == "" {
			break
		}
		h.lines = append(h.lines, line)
	}
	h.raw = raw.String()
	return h, nil
}

func parseStatusLine(line string) (proto string, code int, reason string, err error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/1.") {
		return "", 0, "", fmt.Errorf(errPrefix+"malformed status line %q", line)
	}
	code, err = strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 3 || code < 100 {
		return "", 0, "", fmt.Errorf(errPrefix+"malformed status code in %q", line)
	}
	if len(parts) == 3 {
		reason = parts[2]
	}
	return parts[0], code, reason, nil
}

// readLine reads a line terminated by LF or CRLF and returns it without
// the terminator. Bytes consumed are charged against budget if it
// points to a positive value.
func readLine(br *bufio.Reader, budget *int) (string, error) {
	var sb strings.Builder
	limited := *budget > 0
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		if limited {
			*budget--
			if *budget <= 0 {
				return "", errHeaderTooLarge
			}
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
	}
	return sb.String(), nil
}

// lengthBody reads exactly n bytes, reporting io.ErrUnexpectedEOF if
// the stream ends early.
type lengthBody struct {
	r io.Reader
	n int64
}

func (b *lengthBody) Read(p []byte) (int, error) {
	if b.n <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > b.n {
		p = p[:b.n]
	}
	n, err := b.r.Read(p)
	b.n -= int64(n)
	if err == io.EOF && b.n > 0 {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// chunkedBody decodes Transfer-Encoding: chunked.
type chunkedBody struct {
	br       *bufio.Reader
	remain   int64
	finished bool
	maxLine  int
}

func newChunkedBody(br *bufio.Reader, maxLine int) *chunkedBody {
	return &chunkedBody{br: br, remain: -1, maxLine: maxLine}
}

func (c *chunkedBody) Read(p []byte) (int, error) {
	if c.finished {
		return 0, io.EOF
	}
	if c.remain <= 0 {
		size, err := c.readChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			if err := c.readTrailers(); err != nil {
				return 0, err
			}
			c.finished = true
			return 0, io.EOF
		}
		c.remain = size
	}
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > c.remain {
		p = p[:c.remain]
	}
	n, err := io.ReadFull(c.br, p)
	c.remain -= int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return n, err
	}
	if c.remain == 0 {
		if err := c.expectCRLF(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *chunkedBody) readChunkSize() (int64, error) {
	budget := c.maxLine
	line, err := readLine(c.br, &budget)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, errChunkFormat
	}
	n, err := strconv.ParseInt(line, 16, 64)
	if err != nil || n < 0 {
		return 0, errChunkFormat
	}
	return n, nil
}

func (c *chunkedBody) expectCRLF() error {
	b1, err := c.br.ReadByte()
	if err != nil {
		return io.ErrUnexpectedEOF
	}
	if b1 == '\n' {
		return nil
	}
	b2, err := c.br.ReadByte()
	if err != nil {
		return io.ErrUnexpectedEOF
	}
	if b1 != '\r' || b2 != '\n' {
		return fmt.Errorf(errPrefix+"expected CRLF after chunk, got %q%q", b1, b2)
	}
	return nil
}

func (c *chunkedBody) readTrailers() error {
	for {
		budget := c.maxLine
		line, err := readLine(c.br, &budget)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if line == "" {
			return nil
		}
	}
}
