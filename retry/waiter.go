// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gogama/apix/request"
)

// A Waiter says how long to wait before retrying a failed attempt. The
// controller only calls Wait after the Decider allowed a retry.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultBackoff is the unit of DefaultWaiter.
const DefaultBackoff = 500 * time.Millisecond

// DefaultWaiter waits DefaultBackoff times the retry number.
var DefaultWaiter = NewLinearWaiter(DefaultBackoff)

// NewLinearWaiter constructs a Waiter which waits unit*(n+1) before
// retrying after attempt n: one unit before the first retry, two
// before the second, and so on. A unit below zero counts as zero.
func NewLinearWaiter(unit time.Duration) Waiter {
	if unit < 0 {
		unit = 0
	}
	return linearWaiter(unit)
}

type linearWaiter time.Duration

func (w linearWaiter) Wait(e *request.Execution) time.Duration {
	n := int64(e.Attempt) + 1
	if n < 1 {
		n = 1
	}
	d := int64(w) * n
	if w != 0 && d/n != int64(w) {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(d)
}

// NewFixedWaiter constructs a Waiter that always returns d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing exponential backoff
// with optional "Full Jitter":
//
//	ceil := min(base * 2**attempt, max)
//
// Base must be positive and max at least base.
//
// If jitter is nil, the waiter returns ceil. Otherwise it returns a
// random duration in [0, ceil) drawn from jitter, which may be a seed
// (time.Time, int or int64) or a random source (rand.Source or
// *rand.Rand).
func NewExpWaiter(base, max time.Duration, jitter any) Waiter {
	if base < 1 {
		panic("apix/retry: base must be positive")
	}
	if max < base {
		panic("apix/retry: max must be at least base")
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
	exp := int64(1) << e.Attempt
	if exp < 1 {
		exp = 1<<63 - 1
	}

	ceil := int64(w.base) * exp
	if ceil/exp != int64(w.base) || int64(w.max) < ceil {
		ceil = int64(w.max)
	}

	duration := ceil
	if w.rand != nil {
		w.lock.Lock()
		defer w.lock.Unlock()
		duration = w.rand.Int63n(ceil)
	}

	return time.Duration(duration)
}

func jitterToRand(jitter any) *rand.Rand {
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
			panic("apix/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("apix/retry: invalid jitter type")
	}
	return rand.New(s)
}
