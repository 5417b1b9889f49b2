// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the YAML configuration of the command line tool
// and turns it into a platform session and a retry policy.
package config

import (
	"time"

	"github.com/gogama/simplehttp/retry"
	"github.com/gogama/simplehttp/transport"
)

// Config is the root configuration structure.
type Config struct {
	UserAgent      string        `yaml:"user_agent"`
	DialTimeout    time.Duration `yaml:"dial_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	// NoProxy disables proxy selection from the environment.
	NoProxy bool `yaml:"no_proxy"`
	// Headers are extra header lines sent with every request, before
	// any given on the command line.
	Headers []string `yaml:"headers,omitempty"`
	Retry   Retry    `yaml:"retry"`
}

// Retry configures retries of transient failures.
type Retry struct {
	Times    int           `yaml:"times"`
	BaseWait time.Duration `yaml:"base_wait"`
	MaxWait  time.Duration `yaml:"max_wait"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		UserAgent:      transport.DefaultUserAgent,
		DialTimeout:    30 * time.Second,
		MaxHeaderBytes: transport.DefaultMaxHeaderBytes,
		Retry: Retry{
			BaseWait: 50 * time.Millisecond,
			MaxWait:  time.Second,
		},
	}
}

// Session returns a NetSession configured accordingly.
func (c *Config) Session() *transport.NetSession {
	s := &transport.NetSession{
		UserAgent:      c.UserAgent,
		DialTimeout:    c.DialTimeout,
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
		MaxHeaderBytes: c.MaxHeaderBytes,
	}
	if !c.NoProxy {
		s.Proxy = transport.ProxyFromEnvironment
	}
	return s
}

// RetryPolicy returns the retry policy. With zero retry times, it is
// retry.Never.
func (c *Config) RetryPolicy() retry.Policy {
	if c.Retry.Times <= 0 {
		return retry.Never
	}
	decider := retry.Times(c.Retry.Times).And(retry.StatusCode(429, 502, 503, 504).Or(retry.TransientErr))
	waiter := retry.NewExpWaiter(c.Retry.BaseWait, c.Retry.MaxWait, time.Now())
	return retry.NewPolicy(decider, waiter)
}
