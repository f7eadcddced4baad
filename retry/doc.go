// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry decides whether a failed attempt against an endpoint
// is retried, and how long to wait first.
//
// A Policy is a Decider plus a Waiter. The controller consults the
// policy only after an attempt failed with a transport error or a
// non-2xx status; successful attempts and decode failures end the
// execution without asking.
//
// DefaultPolicy retries while the endpoint's retry budget lasts, and
// waits linearly longer before each retry:
//
//	decider := retry.Budget.And(retry.Failed)
//	waiter := retry.NewLinearWaiter(500 * time.Millisecond)
//
// Deciders compose, so a caller wanting to retry only transient errors
// and throttling inside the budget could write:
//
//	decider := retry.Budget.
//	               And(retry.Before(10 * time.Second)).
//	               And(retry.StatusCode(429, 503).Or(retry.TransientErr))
//	policy := retry.NewPolicy(decider, retry.NewLinearWaiter(time.Second))
package retry
