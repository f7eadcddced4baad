// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"context"
	"io"

	"github.com/gogama/apix/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes a request to an endpoint, decodes the response into
// target, and returns the final execution state (and error, if any).
// Controller implements the Doer interface, and any other Doer
// implementation must behave substantially the same as Controller.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(ctx context.Context, ep request.Endpoint, target any) (*request.Execution, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the basic Do,
// CloseIdleConnections, and Close methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	IdleCloser
	io.Closer
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("apix: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(ctx context.Context, ep request.Endpoint, target any) (*request.Execution, error) {
	return i.doer.Do(ctx, ep, target)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (i inflated) Close() error {
	if c, ok := i.doer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
