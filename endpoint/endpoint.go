// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package endpoint decomposes absolute http:// and https:// URLs into
// the pieces needed to connect to a server and address a resource on
// it.
//
// The decomposition is deliberately literal. The path is returned
// exactly as given, with no normalization and no percent-decoding, and
// anything following the path (query, fragment) stays part of it.
package endpoint

import (
	"net"
	"strconv"
	"strings"

	"github.com/gogama/simplehttp/failure"
)

const (
	httpPrefix  = "http://"
	httpsPrefix = "https://"

	// DefaultHTTPPort is the port used for http:// URLs that don't
	// name one.
	DefaultHTTPPort uint16 = 80
	// DefaultHTTPSPort is the port used for https:// URLs that don't
	// name one.
	DefaultHTTPSPort uint16 = 443
)

// An Endpoint is the result of parsing a URL.
type Endpoint struct {
	// Secure is true for https:// URLs.
	Secure bool
	// Host is the server name, exactly as it appears in the URL.
	Host string
	// Port is the explicit port from the URL, or the scheme default.
	Port uint16
	// Path is the remainder of the URL from the first slash after the
	// server name. It is never empty and always starts with "/".
	Path string
}

// Parse parses an absolute URL.
//
// The URL must start with "http://" or "https://" (case-sensitive) and
// must name a server. An explicit port, if present, must be a decimal
// number between 0 and 65535. Errors returned are *failure.Error with
// kind failure.MalformedURL or failure.InvalidPort.
func Parse(url string) (Endpoint, error) {
	var ep Endpoint
	var start int
	switch {
	case strings.HasPrefix(url, httpsPrefix):
		ep.Secure = true
		ep.Port = DefaultHTTPSPort
		start = len(httpsPrefix)
	case strings.HasPrefix(url, httpPrefix):
		ep.Port = DefaultHTTPPort
		start = len(httpPrefix)
	default:
		return Endpoint{}, failure.New(failure.MalformedURL, "expected http:// or https:// at the beginning")
	}

	rest := url[start:]
	end := strings.IndexAny(rest, "/:")
	if end < 0 {
		if rest == "" {
			return Endpoint{}, failure.New(failure.MalformedURL, "expected a server name to follow the protocol specification")
		}
		ep.Host = rest
		ep.Path = "/"
		return ep, nil
	}

	ep.Host = rest[:end]
	if rest[end] == ':' {
		portText := rest[end+1:]
		slash := strings.IndexByte(portText, '/')
		if slash >= 0 {
			portText = portText[:slash]
		}
		port, err := parsePort(portText)
		if err != nil {
			return Endpoint{}, err
		}
		ep.Port = port
		if slash < 0 {
			ep.Path = "/"
			return ep, nil
		}
		end += 1 + slash
	}

	if end == len(rest) {
		ep.Path = "/"
	} else {
		ep.Path = rest[end:]
	}
	return ep, nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, failure.Errorf(failure.InvalidPort, "expected a number, got %q", s)
	}
	if n < 0 || n > 65535 {
		return 0, failure.Errorf(failure.InvalidPort, "must be between 0 and 65535, got %d", n)
	}
	return uint16(n), nil
}

// Scheme returns "https" if the endpoint is secure, and "http"
// otherwise.
func (ep Endpoint) Scheme() string {
	if ep.Secure {
		return "https"
	}
	return "http"
}

// Address returns the host and port joined into a dialable network
// address.
func (ep Endpoint) Address() string {
	return net.JoinHostPort(ep.Host, strconv.Itoa(int(ep.Port)))
}

// HostHeader returns the value to send in the Host request header. The
// port is omitted if it is the scheme default.
func (ep Endpoint) HostHeader() string {
	if ep.Port == ep.defaultPort() {
		if strings.IndexByte(ep.Host, ':') >= 0 {
			return "[" + ep.Host + "]"
		}
		return ep.Host
	}
	return ep.Address()
}

// String reassembles the endpoint into an absolute URL.
func (ep Endpoint) String() string {
	return ep.Scheme() + "://" + ep.HostHeader() + ep.Path
}

func (ep Endpoint) defaultPort() uint16 {
	if ep.Secure {
		return DefaultHTTPSPort
	}
	return DefaultHTTPPort
}
