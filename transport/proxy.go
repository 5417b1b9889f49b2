// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net"
	"net/url"
	"sync"

	"github.com/gogama/simplehttp/endpoint"
	"golang.org/x/net/http/httpproxy"
)

// A ProxyFunc returns the proxy to use for connections to an endpoint.
// A nil URL and nil error means the endpoint is reached directly.
type ProxyFunc func(ep endpoint.Endpoint) (*url.URL, error)

var (
	envProxyOnce sync.Once
	envProxy     func(*url.URL) (*url.URL, error)
)

// ProxyFromEnvironment returns the proxy configured by the HTTP_PROXY,
// HTTPS_PROXY and NO_PROXY environment variables (or their lowercase
// versions). The environment is read once, on first use.
//
// As with the standard library, requests to localhost and loopback
// addresses are never proxied.
func ProxyFromEnvironment(ep endpoint.Endpoint) (*url.URL, error) {
	envProxyOnce.Do(func() {
		envProxy = httpproxy.FromEnvironment().ProxyFunc()
	})
	return envProxy(endpointURL(ep))
}

// ProxyFromConfig returns a ProxyFunc which selects proxies according
// to cfg instead of the environment.
func ProxyFromConfig(cfg *httpproxy.Config) ProxyFunc {
	f := cfg.ProxyFunc()
	return func(ep endpoint.Endpoint) (*url.URL, error) {
		return f(endpointURL(ep))
	}
}

// ProxyURL returns a ProxyFunc which always returns u.
func ProxyURL(u *url.URL) ProxyFunc {
	return func(endpoint.Endpoint) (*url.URL, error) {
		return u, nil
	}
}

func endpointURL(ep endpoint.Endpoint) *url.URL {
	return &url.URL{Scheme: ep.Scheme(), Host: ep.HostHeader()}
}

func proxyAddress(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	port := "80"
	if u.Scheme == "https" {
		port = "443"
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func proxyAuth(u *url.URL) string {
	if u == nil || u.User == nil {
		return ""
	}
	pass, _ := u.User.Password()
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(u.User.Username()+":"+pass))
}

// tunnel asks the proxy at the other end of c to open a CONNECT tunnel
// to addr. Bytes the proxy sends after its response belong to the
// tunnel and are returned in the reader.
func tunnel(c net.Conn, addr string, proxy *url.URL, maxHeaderBytes int) (*bufio.Reader, error) {
	bw := bufio.NewWriter(c)
	fmt.Fprintf(bw, "CONNECT %s HTTP/1.1\r\nHost: %s\r\n", addr, addr)
	if auth := proxyAuth(proxy); auth != "" {
		fmt.Fprintf(bw, "Proxy-Authorization: %s\r\n", auth)
	}
	bw.WriteString("\r\n")
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	br := bufio.NewReader(c)
	head, err := readHead(br, maxHeaderBytes)
	if err != nil {
		return nil, err
	}
	if head.code/100 != 2 {
		return nil, fmt.Errorf(errPrefix+"proxy CONNECT to %s failed: %d %s", addr, head.code, head.reason)
	}
	return br, nil
}
