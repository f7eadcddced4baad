// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"context"

	"github.com/gogama/apix/request"
)

// A Result is the outcome of one request: either a decoded Value or an
// Err, never both.
type Result[T any] struct {
	// Value is the decoded response. It is the zero value of T when Err
	// is not nil.
	Value T
	// Err is the error the request failed with, if any.
	Err error
	// Execution is the final execution state. It is never nil.
	Execution *request.Execution
}

// OK reports whether the request succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Request executes a request to ep using d and decodes the response
// into a new T. On failure it returns the zero value of T.
//
// Use codec.Empty as T to ignore the response body, and codec.Raw to
// receive it undecoded.
func Request[T any](ctx context.Context, d Doer, ep request.Endpoint) (T, error) {
	r := RequestResult[T](ctx, d, ep)
	return r.Value, r.Err
}

// RequestResult is like Request but returns the outcome as a Result,
// which also carries the final execution state.
func RequestResult[T any](ctx context.Context, d Doer, ep request.Endpoint) Result[T] {
	if d == nil {
		panic("apix: nil doer")
	}

	var v T
	e, err := d.Do(ctx, ep, &v)
	if err != nil {
		var zero T
		return Result[T]{Value: zero, Err: err, Execution: e}
	}
	return Result[T]{Value: v, Execution: e}
}

// Go executes a request like RequestResult on a new goroutine and
// calls fn with the outcome on that goroutine. Go returns immediately.
func Go[T any](ctx context.Context, d Doer, ep request.Endpoint, fn func(Result[T])) {
	if d == nil {
		panic("apix: nil doer")
	}
	if fn == nil {
		panic("apix: nil callback")
	}

	go func() {
		fn(RequestResult[T](ctx, d, ep))
	}()
}
