// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gogama/simplehttp/request"
)

// A Waiter specifies how long to wait before retrying a failed request.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// Do does not call the Waiter on a retry policy if the policy Decider
// returned false.
type Waiter interface {
	// Wait returns the duration to wait before the next attempt. The
	// value of e.Attempt is the zero-based number of the attempt just
	// completed.
	Wait(e *request.Execution) time.Duration
}

// DefaultWaiter is the default retry wait policy. It uses a jittered
// exponential backoff formula with a base wait of 50 milliseconds and a
// maximum wait of 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing an exponential backoff
// formula with optional "full jitter":
//
//	ceil := min(base * 2**attempt, max)
//	wait := random value in [0, ceil)
//
// Base must be positive, and max must be at least equal to base.
//
// To make a waiter that does not jitter and simply returns ceil, pass
// nil for jitter. Otherwise pass either a seed (as a time.Time, int, or
// int64) or a source of randomness (as a rand.Source or *rand.Rand).
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("simplehttp/retry: base must be positive")
	}
	if max < base {
		panic("simplehttp/retry: max must be at least base")
	}
	return &jitterExpWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type jitterExpWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *jitterExpWaiter) Wait(e *request.Execution) time.Duration {
	ceil := w.ceil(e.Attempt)
	if w.rand == nil {
		return ceil
	}
	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

func (w *jitterExpWaiter) ceil(attempt int) time.Duration {
	ceil := w.base
	for i := 0; i < attempt; i++ {
		if ceil > w.max/2 {
			return w.max
		}
		ceil *= 2
	}
	if ceil > w.max {
		return w.max
	}
	return ceil
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("simplehttp/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("simplehttp/retry: invalid jitter type")
	}
	return rand.New(s)
}
