// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/simplehttp/failure"
	"github.com/gogama/simplehttp/request"
	"github.com/gogama/simplehttp/transient"
)

// A Decider decides whether to retry after an execution.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
type Decider interface {
	// Decide returns true if the request described by e should be
	// retried, and false otherwise.
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of retries done by DefaultDecider.
const DefaultTimes = 5

// DefaultDecider is the default retry decider. It retries up to
// DefaultTimes times if the response status code is 429, 502, 503 or
// 504, or if the execution failed with a transient error.
var DefaultDecider = Times(DefaultTimes).And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr is a decider that returns true if the execution failed
// with an error which transient.Categorize considers transient.
var TransientErr DeciderFunc = transientErr

// Decide returns f(e).
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two deciders into a new decider which returns true if
// both sub-deciders return true, and false otherwise.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two deciders into a new decider which returns true if
// either of the two sub-deciders returns true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times returns a decider that allows up to n retries.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before returns a decider that allows retries only while less than d
// has elapsed since the first attempt started.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return elapsed(e) < d
	}
}

// StatusCode returns a decider that is true when the execution
// received a response whose status code is one of ss.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		if e.Response == nil {
			return false
		}
		for _, s := range ss2 {
			if e.Response.StatusCode == s {
				return true
			}
		}
		return false
	}
}

// Kind returns a decider that is true when the execution failed with
// a *failure.Error of one of the given kinds.
func Kind(kinds ...failure.Kind) DeciderFunc {
	kinds2 := make([]failure.Kind, len(kinds))
	copy(kinds2, kinds)
	return func(e *request.Execution) bool {
		k := failure.KindOf(e.Err)
		for _, kind := range kinds2 {
			if k == kind {
				return true
			}
		}
		return false
	}
}

func transientErr(e *request.Execution) bool {
	return transient.Categorize(e.Err) != transient.Not
}
