// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/apix/request"
)

// A Policy sets the timeout of the next attempt in an execution.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout for the next attempt. When it is
	// called, e still holds the outcome of the previous attempt, if
	// any. A return value of None means no timeout.
	Timeout(e *request.Execution) time.Duration
}

// None is the timeout value meaning "no timeout".
const None = time.Duration(1<<63 - 1)

// DefaultPolicy sets a fixed timeout of 60 seconds on each attempt.
var DefaultPolicy Policy = Fixed(60 * time.Second)

// Infinite is a policy which never times out.
var Infinite Policy = Fixed(None)

// Fixed constructs a policy that gives every attempt the timeout d. A
// non-positive d means no timeout.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{normalize(d)})
}

// Adaptive constructs a policy that lengthens the timeout after an
// attempt times out.
//
// An attempt whose predecessor did not time out gets usual. An attempt
// following a timeout gets after[i], where i+1 is the number of attempt
// timeouts so far, clamped to the last element of after.
//
//	p := Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// Here p uses 200 milliseconds normally, one second right after the
// first timeout, and ten seconds right after any later timeout.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = normalize(usual)
	for _, d := range after {
		p = append(p, normalize(d))
	}
	return policy(p)
}

func normalize(d time.Duration) time.Duration {
	if d <= 0 {
		return None
	}
	return d
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return p[0]
	}

	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
