// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gogama/simplehttp/endpoint"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
)

const (
	// DefaultUserAgent is the User-Agent sent by NetSession when
	// neither the session nor the request headers name one.
	DefaultUserAgent = "simplehttp/0.1"
	// DefaultMaxHeaderBytes is the response head size limit used by
	// NetSession when MaxHeaderBytes is not positive.
	DefaultMaxHeaderBytes = 1 << 20
)

var (
	errAlreadyOpen    = errors.New(errPrefix + "connection already has a request")
	errAlreadySent    = errors.New(errPrefix + "request already sent")
	errNotSent        = errors.New(errPrefix + "request not sent")
	errNotReceived    = errors.New(errPrefix + "response not received")
	errHandleClosed   = errors.New(errPrefix + "request handle closed")
	errConnClosed     = errors.New(errPrefix + "connection closed")
	errUnknownInfo    = errors.New(errPrefix + "unknown info")
	errInvalidRequest = errors.New(errPrefix + "invalid request line")
	errNoHost         = errors.New(errPrefix + "no host name")
)

// A NetSession is a Session which speaks HTTP/1.1 directly over TCP,
// using TLS for secure endpoints. Each Connection carries exactly one
// request, sent with "Connection: close", and redirects are never
// followed.
//
// The zero value is a valid NetSession which connects directly, without
// a proxy. A NetSession must not be modified once in use.
type NetSession struct {
	// UserAgent is sent as the User-Agent header unless the request
	// headers include one. If empty, DefaultUserAgent is used.
	UserAgent string

	// DialTimeout limits the time spent establishing the TCP
	// connection, including any proxy tunnel. Zero means no limit.
	DialTimeout time.Duration

	// ReadTimeout limits each wait for response data. Zero means no
	// limit.
	ReadTimeout time.Duration

	// WriteTimeout limits the time spent sending the request,
	// including the TLS handshake. Zero means no limit.
	WriteTimeout time.Duration

	// MaxHeaderBytes limits the size of the response status line and
	// headers. If zero or negative, DefaultMaxHeaderBytes is used.
	MaxHeaderBytes int

	// TLSConfig is the TLS client configuration. If nil, the default
	// configuration is used, which verifies the server against the
	// system roots.
	TLSConfig *tls.Config

	// Proxy selects the proxy for each connection. If nil, no proxy is
	// used.
	Proxy ProxyFunc
}

// NewNetSession returns a NetSession which selects proxies from the
// environment.
func NewNetSession() *NetSession {
	return &NetSession{Proxy: ProxyFromEnvironment}
}

// Connect dials the endpoint, or the proxy selected for it. Secure
// endpoints behind a proxy are reached through a CONNECT tunnel.
func (s *NetSession) Connect(ep endpoint.Endpoint) (Connection, error) {
	if ep.Host == "" {
		return nil, errNoHost
	}
	host, err := asciiHost(ep.Host)
	if err != nil {
		return nil, err
	}
	var proxy *url.URL
	if s.Proxy != nil {
		if proxy, err = s.Proxy(ep); err != nil {
			return nil, err
		}
	}
	addr := net.JoinHostPort(host, strconv.Itoa(int(ep.Port)))
	dialAddr := addr
	if proxy != nil {
		dialAddr = proxyAddress(proxy)
	}
	d := net.Dialer{Timeout: s.DialTimeout}
	raw, err := d.Dial("tcp", dialAddr)
	if err != nil {
		return nil, err
	}
	c := &netConn{
		session:    s,
		raw:        raw,
		conn:       raw,
		host:       host,
		hostHeader: ep.HostHeader(),
	}
	if proxy != nil && ep.Secure {
		if s.DialTimeout > 0 {
			_ = raw.SetDeadline(time.Now().Add(s.DialTimeout))
		}
		br, err := tunnel(raw, addr, proxy, s.maxHeaderBytes())
		if err != nil {
			_ = raw.Close()
			return nil, err
		}
		_ = raw.SetDeadline(time.Time{})
		c.conn = &bufferedConn{Conn: raw, r: br}
	} else if proxy != nil {
		c.proxy = proxy
	}
	return c, nil
}

func (s *NetSession) userAgent() string {
	if s.UserAgent != "" {
		return s.UserAgent
	}
	return DefaultUserAgent
}

func (s *NetSession) maxHeaderBytes() int {
	if s.MaxHeaderBytes > 0 {
		return s.MaxHeaderBytes
	}
	return DefaultMaxHeaderBytes
}

func (s *NetSession) tlsConfig(host string) *tls.Config {
	var cfg *tls.Config
	if s.TLSConfig != nil {
		cfg = s.TLSConfig.Clone()
	} else {
		cfg = &tls.Config{}
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	if len(cfg.NextProtos) == 0 {
		cfg.NextProtos = []string{"http/1.1"}
	}
	return cfg
}

// asciiHost converts an internationalized host name to its ASCII
// form. IP literals and ASCII names are returned unchanged.
func asciiHost(host string) (string, error) {
	if isASCII(host) {
		return host, nil
	}
	return idna.Lookup.ToASCII(host)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

type netConn struct {
	session    *NetSession
	raw        net.Conn
	conn       net.Conn
	host       string
	hostHeader string
	proxy      *url.URL
	opened     bool
	closed     bool
}

func (c *netConn) OpenRequest(verb, path string, flags OpenFlag) (Handle, error) {
	if c.closed {
		return nil, errConnClosed
	}
	if c.opened {
		return nil, errAlreadyOpen
	}
	if verb == "" || !httpguts.ValidHeaderFieldName(verb) {
		return nil, fmt.Errorf("%w: bad verb %q", errInvalidRequest, verb)
	}
	if flags&FlagEscapePercent == 0 {
		path = escapePath(path)
	}
	if strings.ContainsAny(path, "\r\n") {
		return nil, fmt.Errorf("%w: line break in path", errInvalidRequest)
	}
	c.opened = true
	conn := c.conn
	if flags&FlagSecure != 0 {
		conn = tls.Client(conn, c.session.tlsConfig(c.host))
	}
	target := path
	if c.proxy != nil && flags&FlagSecure == 0 {
		target = "http://" + c.hostHeader + path
	}
	r := &netRequest{
		session: c.session,
		conn:    conn,
		verb:    verb,
		target:  target,
	}
	r.set("Host", c.hostHeader)
	r.set("User-Agent", c.session.userAgent())
	if c.proxy != nil && flags&FlagSecure == 0 {
		if auth := proxyAuth(c.proxy); auth != "" {
			r.set("Proxy-Authorization", auth)
		}
	}
	return r, nil
}

func (c *netConn) Close() error {
	if c.closed {
		return errConnClosed
	}
	c.closed = true
	return c.raw.Close()
}

// escapePath percent-encodes control characters, spaces and non-ASCII
// bytes. Existing escapes are left alone.
func escapePath(path string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		ch := path[i]
		if ch <= ' ' || ch >= 0x7f {
			b.WriteByte('%')
			b.WriteByte(hex[ch>>4])
			b.WriteByte(hex[ch&0xf])
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

type headerField struct {
	name, value string
}

type netRequest struct {
	session *NetSession
	conn    net.Conn
	verb    string
	target  string
	fields  []headerField
	sent    bool
	closed  bool
	head    *responseHead
	body    io.Reader
	pending error
}

func (r *netRequest) set(name, value string) {
	for i := range r.fields {
		if strings.EqualFold(r.fields[i].name, name) {
			r.fields[i].value = value
			return
		}
	}
	r.fields = append(r.fields, headerField{name, value})
}

func (r *netRequest) has(name string) bool {
	for _, f := range r.fields {
		if strings.EqualFold(f.name, name) {
			return true
		}
	}
	return false
}

// AddHeaders validates every line in block before adding any of them,
// so a rejected block leaves the request unchanged.
func (r *netRequest) AddHeaders(block string) error {
	if r.closed {
		return errHandleClosed
	}
	if r.sent {
		return errAlreadySent
	}
	var fields []headerField
	for _, line := range strings.Split(block, "\r\n") {
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			return fmt.Errorf(errPrefix+"header line %q has no colon", line)
		}
		name, value := line[:i], strings.TrimSpace(line[i+1:])
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf(errPrefix+"invalid header name %q", name)
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return fmt.Errorf(errPrefix+"invalid value for header %q", name)
		}
		fields = append(fields, headerField{name, value})
	}
	for _, f := range fields {
		r.set(f.name, f.value)
	}
	return nil
}

func (r *netRequest) Send(body []byte) error {
	if r.closed {
		return errHandleClosed
	}
	if r.sent {
		return errAlreadySent
	}
	r.sent = true
	if body != nil && !r.has("Content-Length") {
		r.set("Content-Length", strconv.Itoa(len(body)))
	}
	if !r.has("Connection") {
		r.set("Connection", "close")
	}
	if t := r.session.WriteTimeout; t > 0 {
		_ = r.conn.SetWriteDeadline(time.Now().Add(t))
	}
	bw := bufio.NewWriter(r.conn)
	fmt.Fprintf(bw, "%s %s HTTP/1.1\r\n", r.verb, r.target)
	for _, f := range r.fields {
		fmt.Fprintf(bw, "%s: %s\r\n", f.name, f.value)
	}
	bw.WriteString("\r\n")
	bw.Write(body)
	return bw.Flush()
}

func (r *netRequest) ReceiveResponse() error {
	if r.closed {
		return errHandleClosed
	}
	if !r.sent {
		return errNotSent
	}
	if r.head != nil {
		return nil
	}
	br := bufio.NewReader(&deadlineReader{conn: r.conn, timeout: r.session.ReadTimeout})
	limit := r.session.maxHeaderBytes()
	for {
		head, err := readHead(br, limit)
		if err != nil {
			return err
		}
		if head.code >= 100 && head.code < 200 && head.code != 101 {
			continue
		}
		body, err := bodyReader(r.verb, head, br, limit)
		if err != nil {
			return err
		}
		r.head, r.body = head, body
		return nil
	}
}

func bodyReader(verb string, head *responseHead, br *bufio.Reader, maxLine int) (io.Reader, error) {
	if verb == "HEAD" || head.code < 200 || head.code == 204 || head.code == 304 {
		return strings.NewReader(""), nil
	}
	if head.chunked() {
		return newChunkedBody(br, maxLine), nil
	}
	if cl, ok := head.get("Content-Length"); ok {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf(errPrefix+"invalid Content-Length %q", cl)
		}
		return &lengthBody{r: br, n: n}, nil
	}
	return br, nil
}

func (r *netRequest) QueryStatusCode() (int, error) {
	if r.head == nil {
		return 0, errNotReceived
	}
	return r.head.code, nil
}

func (r *netRequest) Query(info Info, buf []byte) (int, error) {
	if r.head == nil {
		return 0, errNotReceived
	}
	var s string
	switch info {
	case StatusText:
		s = r.head.reason
	case RawHeaders:
		s = r.head.raw
	default:
		return 0, errUnknownInfo
	}
	if len(buf) < len(s) {
		return len(s), ErrInsufficientBuffer
	}
	return copy(buf, s), nil
}

func (r *netRequest) ReadData(buf []byte) (int, error) {
	if r.closed {
		return 0, errHandleClosed
	}
	if r.head == nil {
		return 0, errNotReceived
	}
	if r.pending != nil {
		return 0, r.pending
	}
	for {
		n, err := r.body.Read(buf)
		if n > 0 {
			if err != nil && err != io.EOF {
				r.pending = err
			}
			return n, nil
		}
		if err == io.EOF {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		if len(buf) == 0 {
			return 0, nil
		}
	}
}

func (r *netRequest) Close() error {
	if r.closed {
		return errHandleClosed
	}
	r.closed = true
	return nil
}

// deadlineReader extends the read deadline of conn before each read.
type deadlineReader struct {
	conn    net.Conn
	timeout time.Duration
}

func (d *deadlineReader) Read(p []byte) (int, error) {
	if d.timeout > 0 {
		_ = d.conn.SetReadDeadline(time.Now().Add(d.timeout))
	}
	return d.conn.Read(p)
}
