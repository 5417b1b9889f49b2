// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry repeats failed request executions according to a
// policy. The engine itself never retries; Do runs one complete
// execution per attempt and consults the policy after each.
//
// The interface Policy defines a retry Policy. A Policy instance can be
// constructed using NewPolicy by providing a decision-maker, Decider,
// and a wait time calculator, Waiter. Both Decider and Waiter have
// constructors for common use cases, so that a useful policy can be
// quickly assembled:
//
//	decider := retry.Times(3).
//		And(retry.Before(5 * time.Second)).
//		And(retry.StatusCode(503).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//	policy := retry.NewPolicy(decider, waiter)
//	e, err := retry.Do(client, spec, policy)
//
// Only the outcome of an execution is inspected. A request which fails
// with a malformed URL, or any other non-transient failure, is not
// retried by the built-in deciders.
package retry
