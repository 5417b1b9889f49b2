// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging provides event handlers which log request executions
// to a zap.Logger.
//
// Install the handlers into the HandlerGroup of a Client:
//
//	handlers := &simplehttp.HandlerGroup{}
//	logging.Install(handlers, logger)
//	client := &simplehttp.Client{Handlers: handlers}
//
// Stage events are logged at debug level. The outcome of each execution
// is logged at info level on success and at warn level on failure.
package logging

import (
	"github.com/gogama/simplehttp"
	"github.com/gogama/simplehttp/failure"
	"github.com/gogama/simplehttp/request"
	"go.uber.org/zap"
)

// Install adds a logging handler for every event to g. If l is nil,
// zap.L() is used.
func Install(g *simplehttp.HandlerGroup, l *zap.Logger) {
	if l == nil {
		l = zap.L()
	}
	h := Handler(l)
	for _, evt := range simplehttp.Events() {
		g.PushBack(evt, h)
	}
}

// Handler returns a handler which logs each event it receives to l.
func Handler(l *zap.Logger) simplehttp.Handler {
	return simplehttp.HandlerFunc(func(evt simplehttp.Event, e *request.Execution) {
		switch evt {
		case simplehttp.BeforeExecute:
			l.Debug("executing request",
				zap.String("verb", e.Spec.Verb),
				zap.String("url", e.Spec.URL),
				zap.Int("body_bytes", len(e.Spec.Body)))
		case simplehttp.BeforeSend:
			l.Debug("sending request",
				zap.Stringer("endpoint", e.Endpoint),
				zap.Strings("headers", e.Headers))
		case simplehttp.BeforeReadBody:
			l.Debug("reading response body",
				zap.Int("status", e.StatusCode()))
		case simplehttp.AfterExecute:
			logOutcome(l, e)
		}
	})
}

func logOutcome(l *zap.Logger, e *request.Execution) {
	fields := []zap.Field{
		zap.String("verb", e.Spec.Verb),
		zap.String("url", e.Spec.URL),
		zap.Int("attempt", e.Attempt),
		zap.Duration("duration", e.Duration()),
	}
	if e.Err != nil {
		fields = append(fields,
			zap.Stringer("kind", failure.KindOf(e.Err)),
			zap.Error(e.Err))
		if code := failure.CodeOf(e.Err); code != 0 {
			fields = append(fields, zap.Uint32("code", code))
		}
		l.Warn("request failed", fields...)
		return
	}
	fields = append(fields,
		zap.Int("status", e.Response.StatusCode),
		zap.String("status_text", e.Response.StatusText),
		zap.Int("body_bytes", len(e.Response.Body)))
	l.Info("request complete", fields...)
}

// NewLogger returns the logger used by the command line tool: a
// development logger at debug level if verbose is true, and a no-op
// logger otherwise.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
