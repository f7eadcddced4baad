// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/apix/request"
)

// A Policy decides, after every failed attempt, whether to retry and
// how long to wait before the retry.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy combines DefaultDecider and DefaultWaiter.
var DefaultPolicy Policy = policy{DefaultDecider, DefaultWaiter}

// Never is a policy that never retries, whatever the endpoint's retry
// count.
var Never Policy = policy{Times(0), DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("apix/retry: nil decider")
	}
	if w == nil {
		panic("apix/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

// Linear returns a policy which retries failed attempts within the
// endpoint's budget, waiting unit*(n+1) before retry n+1.
func Linear(unit time.Duration) Policy {
	return policy{DefaultDecider, NewLinearWaiter(unit)}
}

func (p policy) Decide(e *request.Execution) bool {
	return p.decider.Decide(e)
}

func (p policy) Wait(e *request.Execution) time.Duration {
	return p.waiter.Wait(e)
}
