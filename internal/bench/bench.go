// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package bench repeatedly executes one request from a pool of workers
// and summarizes the latency and outcome distribution.
package bench

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/gogama/simplehttp"
	"github.com/gogama/simplehttp/failure"
	"github.com/gogama/simplehttp/request"
	"golang.org/x/time/rate"
)

// Latencies are recorded in microseconds between 1µs and 60s.
const (
	minLatency = 1
	maxLatency = 60_000_000
)

// Options configures a run.
type Options struct {
	// Requests is the total number of requests to execute.
	Requests int
	// Concurrency is the number of worker goroutines.
	Concurrency int
	// Rate limits the requests started per second. Zero means no
	// limit.
	Rate float64
}

func (o Options) validate() error {
	if o.Requests <= 0 {
		return errors.New("bench: requests must be positive")
	}
	if o.Concurrency <= 0 {
		return errors.New("bench: concurrency must be positive")
	}
	if o.Rate < 0 {
		return errors.New("bench: rate must not be negative")
	}
	return nil
}

// Summary is the outcome of a run.
type Summary struct {
	Total     int64
	Succeeded int64
	Failed    int64
	Elapsed   time.Duration
	// Statuses counts responses by status code.
	Statuses map[int]int64
	// Failures counts failed executions by failure kind name.
	Failures map[string]int64

	P50, P95, P99 time.Duration
	Min, Max      time.Duration
	Mean          time.Duration
}

// RPS returns the achieved requests per second.
func (s *Summary) RPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Total) / s.Elapsed.Seconds()
}

// StatusCodes returns the status codes seen, in ascending order.
func (s *Summary) StatusCodes() []int {
	codes := make([]int, 0, len(s.Statuses))
	for code := range s.Statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

type recorder struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	summary   Summary
}

func (r *recorder) record(e *request.Execution) {
	if e == nil {
		return
	}
	us := e.Duration().Microseconds()
	if us < minLatency {
		us = minLatency
	}
	if us > maxLatency {
		us = maxLatency
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.histogram.RecordValue(us)
	r.summary.Total++
	if e.Err != nil {
		r.summary.Failed++
		r.summary.Failures[failure.KindOf(e.Err).Name()]++
		return
	}
	r.summary.Succeeded++
	r.summary.Statuses[e.Response.StatusCode]++
}

// Run executes s opts.Requests times using d. It stops early, returning
// the partial summary and the context error, if ctx is done.
func Run(ctx context.Context, d simplehttp.Doer, s *request.Spec, opts Options) (*Summary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	r := &recorder{
		histogram: hdrhistogram.New(minLatency, maxLatency, 3),
		summary: Summary{
			Statuses: make(map[int]int64),
			Failures: make(map[string]int64),
		},
	}

	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				e, _ := d.Do(s)
				r.record(e)
			}
		}()
	}

	start := time.Now()
	var err error
Feed:
	for i := 0; i < opts.Requests; i++ {
		if limiter != nil {
			if err = limiter.Wait(ctx); err != nil {
				break
			}
		}
		select {
		case jobs <- struct{}{}:
		case <-ctx.Done():
			err = ctx.Err()
			break Feed
		}
	}
	close(jobs)
	wg.Wait()

	sum := r.summary
	sum.Elapsed = time.Since(start)
	if sum.Total > 0 {
		h := r.histogram
		sum.P50 = micros(h.ValueAtQuantile(50))
		sum.P95 = micros(h.ValueAtQuantile(95))
		sum.P99 = micros(h.ValueAtQuantile(99))
		sum.Min = micros(h.Min())
		sum.Max = micros(h.Max())
		sum.Mean = time.Duration(h.Mean() * float64(time.Microsecond))
	}
	return &sum, err
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
