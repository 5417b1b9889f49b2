// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/simplehttp/request"
)

// A Doer executes one request, as simplehttp.Client.Do does.
type Doer interface {
	Do(s *request.Spec) (*request.Execution, error)
}

type firstStartKey struct{}

var sleep = time.Sleep

// Do executes s with d until p decides not to retry, waiting between
// attempts for the duration p prescribes. Each attempt is a complete,
// independent execution. The execution and error of the final attempt
// are returned, with the execution's Attempt field set to the
// zero-based number of that attempt.
//
// If p is nil, DefaultPolicy is used.
func Do(d Doer, s *request.Spec, p Policy) (*request.Execution, error) {
	if d == nil {
		panic("simplehttp/retry: nil doer")
	}
	if p == nil {
		p = DefaultPolicy
	}

	start := time.Now()
	for attempt := 0; ; attempt++ {
		e, err := d.Do(s)
		e.Attempt = attempt
		e.SetValue(firstStartKey{}, start)
		if !p.Decide(e) {
			return e, err
		}
		sleep(p.Wait(e))
	}
}

// elapsed returns the time from the start of the first attempt to the
// end of e, or to now if e has not ended.
func elapsed(e *request.Execution) time.Duration {
	first, ok := e.Value(firstStartKey{}).(time.Time)
	if !ok {
		return e.Duration()
	}
	if e.Ended() {
		return e.End.Sub(first)
	}
	return time.Since(first)
}
