// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/apix/status"
	"github.com/gogama/apix/transient"
)

// An Execution represents the state of a single request made to an
// Endpoint.
//
// When a request is started, an Execution is created for it. The
// Execution is updated as the request progresses (for example when the
// HTTP response becomes available, or when a retry is needed) and is
// ultimately returned alongside the decoded result.
//
// Timeout and retry policies and event handlers may set values on an
// Execution using its SetValue method and read them back using the Value
// method. However, they should treat the structure's exported field
// values as immutable and leave them unmodified, as the execution state
// is vital to the correct functioning of the controller. Limited
// exceptions to this rule include making reasonable changes to the
// http.Request before it is sent (for example to sign it).
type Execution struct {
	// ID uniquely identifies the execution. It is a random UUID
	// assigned when the execution starts.
	ID string

	// Endpoint is the endpoint being requested. It is never nil.
	Endpoint Endpoint

	// Context is the context the execution was started with. Each
	// attempt's request context is derived from it.
	Context context.Context

	// Mock indicates the execution is serving sample data instead of
	// making network calls. A mock execution never has a Response and
	// never makes an attempt.
	Mock bool

	// Start is the start time of the execution. It is assigned a
	// non-zero value when the execution starts, and this value remains
	// constant thereafter.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends, when it is set to the current time.
	End time.Time

	// Attempt is the zero-based number of the current HTTP request
	// attempt. It is set to zero on the initial attempt, one on the
	// first retry, and so on.
	//
	// When the execution is ended, Attempt contains the zero-based
	// number of the last attempt made. So for example an execution that
	// ends after an initial attempt plus two retries will have an
	// attempt number of 2.
	Attempt int

	// Attempts is the count of HTTP request attempts sent to the
	// transport so far. It is zero for mock executions and for
	// executions which failed before sending anything.
	Attempts int

	// AttemptTimeouts is the count of the number of times an HTTP
	// request attempt timed out during the execution.
	AttemptTimeouts int

	// Request specifies the HTTP request to be made in the current
	// attempt, or already made in the last attempt.
	Request *http.Request

	// Response specifies the HTTP response received in the most recent
	// request attempt. It will be nil if the most recent attempt ended
	// in a transport error, if a current attempt is underway, or if the
	// execution is a mock.
	Response *http.Response

	// Err indicates the error of the most recent attempt, or once the
	// execution has ended, the error the execution ended with.
	//
	// Whenever Err is non-nil, it contains a *fault.Error, what the
	// controller's error mapping made of one, or an application error
	// decoded from a non-2xx response body. The underlying transport
	// error, if there was one, is reachable with errors.Is and
	// errors.As.
	Err error

	// Body is the complete response body read after the most recent
	// attempt, after any rewriting by the interceptor. On a mock
	// execution it holds the sample data.
	Body []byte

	data context.Context
}

// StatusCode returns the status code of the HTTP response from the
// most recent request attempt in the execution. If there is no HTTP
// response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers from the most recent request
// attempt in the execution. If there is no HTTP response, the nil
// header is returned.
//
// Note that a nil return value is always safe for read-only operations,
// since http.Header is a map type.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Failed indicates whether the most recent attempt failed, either with
// a transport error or with a response whose status is not 2xx.
func (e *Execution) Failed() bool {
	return e.Err != nil || (e.Response != nil && !status.IsSuccess(e.Response.StatusCode))
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended. Once it has, there
// will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout.
func (e *Execution) Timeout() bool {
	cat := transient.Categorize(e.Err)
	return cat == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same execution.
func (e *Execution) SetValue(key, value any) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key any) any {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
