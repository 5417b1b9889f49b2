// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/simplehttp/request"
)

// A Policy controls if and how retries are done. It is the union of a
// Decider and a Waiter.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy is the default retry policy. It combines DefaultDecider
// with DefaultWaiter.
var DefaultPolicy Policy = policy{DefaultDecider, DefaultWaiter}

// Never is a policy which never retries.
var Never Policy = policy{Times(0), DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy constructs a policy from a decider and a waiter.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("simplehttp/retry: nil decider")
	}
	if w == nil {
		panic("simplehttp/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(e *request.Execution) bool {
	return p.decider.Decide(e)
}

func (p policy) Wait(e *request.Execution) time.Duration {
	return p.waiter.Wait(e)
}
