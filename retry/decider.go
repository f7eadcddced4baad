// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/apix/request"
	"github.com/gogama/apix/transient"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It also provides the logical composition
// methods And and Or.
type DeciderFunc func(e *request.Execution) bool

// DefaultDecider retries failed attempts while the endpoint's retry
// budget lasts.
var DefaultDecider = Budget.And(Failed)

// Budget allows retries while the execution attempt index is less than
// the endpoint's retry count, so an endpoint with retry count k gets at
// most k+1 attempts.
var Budget DeciderFunc = budget

// Failed allows a retry if the most recent attempt failed with an error
// or a non-2xx status.
var Failed DeciderFunc = failed

// TransientErr allows a retry if the current error is transient
// according to transient.Categorize. It always returns false when the
// attempt received a response.
var TransientErr DeciderFunc = transientErr

// Decide returns true if a retry should be done.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two deciders into one which returns true only if both
// do. g is not evaluated if f returns false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two deciders into one which returns true if either does.
// g is not evaluated if f returns true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times constructs a decider which allows up to n retries regardless
// of the endpoint's own retry count.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before constructs a decider which allows retries until d has elapsed
// since the execution started.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode constructs a decider which allows a retry if the most
// recent attempt received a response with one of the status codes ss.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		for _, s := range ss2 {
			if e.StatusCode() == s {
				return true
			}
		}
		return false
	}
}

func budget(e *request.Execution) bool {
	if e.Endpoint == nil {
		return false
	}
	return e.Attempt < request.Retries(e.Endpoint)
}

func failed(e *request.Execution) bool {
	return e.Failed()
}

func transientErr(e *request.Execution) bool {
	return transient.Categorize(e.Err) != transient.Not
}
