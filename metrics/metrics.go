// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics records Prometheus metrics about request executions
// via event handlers.
package metrics

import (
	"strconv"

	"github.com/gogama/simplehttp"
	"github.com/gogama/simplehttp/failure"
	"github.com/gogama/simplehttp/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "simplehttp"

// Metrics holds the collectors fed by the handlers.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	FailuresTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New creates the collectors and registers them with reg. If reg is
// nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "requests_total",
				Help:      "Completed requests by verb and response status code",
			},
			[]string{"verb", "code"},
		),
		FailuresTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "failures_total",
				Help:      "Failed requests by failure kind",
			},
			[]string{"kind"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "request_duration_seconds",
				Help:      "Request execution latency",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"verb"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "requests_in_flight",
				Help:      "Requests currently executing",
			},
		),
	}
}

// Install adds the handlers which feed m to g.
func (m *Metrics) Install(g *simplehttp.HandlerGroup) {
	g.PushBack(simplehttp.BeforeExecute, simplehttp.HandlerFunc(m.before))
	g.PushBack(simplehttp.AfterExecute, simplehttp.HandlerFunc(m.after))
}

func (m *Metrics) before(_ simplehttp.Event, _ *request.Execution) {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) after(_ simplehttp.Event, e *request.Execution) {
	m.RequestsInFlight.Dec()
	m.Record(e)
}

// Record records the outcome of a finished execution.
func (m *Metrics) Record(e *request.Execution) {
	verb := e.Spec.Verb
	m.RequestDuration.WithLabelValues(verb).Observe(e.Duration().Seconds())
	if e.Err != nil {
		m.FailuresTotal.WithLabelValues(failure.KindOf(e.Err).Name()).Inc()
		return
	}
	m.RequestsTotal.WithLabelValues(verb, strconv.Itoa(e.Response.StatusCode)).Inc()
}
