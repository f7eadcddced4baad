// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gogama/apix/codec"
	"github.com/gogama/apix/fault"
	"github.com/gogama/apix/logger"
	"github.com/gogama/apix/request"
	"github.com/gogama/apix/retry"
	"github.com/gogama/apix/status"
	"github.com/gogama/apix/timeout"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const nilCtxMsg = "apix: nil context"

// DefaultPreviewDelay is the delay applied to executions in the Preview
// environment when a Controller does not set PreviewDelay.
const DefaultPreviewDelay = time.Second

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// A Mapper rewrites a response body before it is decoded. If the decode
// target implements Mapper, the controller calls MapResponse with the
// intercepted body and decodes the result instead. A MapResponse error
// fails the request with a fault.Decoding error.
type Mapper interface {
	MapResponse(b []byte) ([]byte, error)
}

var emptyHandlers = HandlerGroup{}

// A Controller executes requests against endpoints and decodes their
// responses. Its zero value is a valid live controller with no
// interceptor, no logging, and no retries beyond each endpoint's own
// retry count.
//
// Controller is safe for concurrent use by multiple goroutines. Its
// exported fields must not be changed once it is in use, and it must
// not be copied after first use.
//
// In the Live environment, Do runs this state machine for every call:
//
// • the authentication gate, which consults the Interceptor before
// every attempt and authenticates once per call;
//
// • an attempt, which builds the wire request, lets the Interceptor
// rewrite it, sends it with a timeout from TimeoutPolicy, reads the
// whole body, and lets the Interceptor rewrite the body;
//
// • on a 2xx response, decoding into the target, which ends the call
// whether or not it succeeds;
//
// • on a transport error or a non-2xx response, a retry decision by
// RetryPolicy, followed by a cancellable wait and another attempt.
//
// In the Test and Preview environments, and for any endpoint using
// sample data, Do decodes the endpoint's sample data instead of making
// network calls.
type Controller struct {
	// Environment selects live or sample data execution.
	Environment Environment
	// Interceptor gates, rewrites and observes requests.
	//
	// If Interceptor is nil, NopInterceptor is used.
	Interceptor Interceptor
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// RetryPolicy decides when to retry failed attempts and how long
	// to sleep before retrying.
	//
	// If RetryPolicy is nil, retry.DefaultPolicy is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy sets the timeout of each attempt.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an execution.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Logger receives one entry per attempt which read a body, one per
	// sample data execution, and one per failed execution, for every
	// endpoint whose ShouldLog method returns true. Entries are written
	// from a background goroutine and never delay a request.
	//
	// If Logger is nil, nothing is logged.
	Logger logger.Logger
	// LogFilter masks sensitive values in log entries.
	//
	// If LogFilter is nil, logger.DefaultFilter is used.
	LogFilter *logger.Filter
	// LogBuffer is the number of log entries which may wait to be
	// written before further entries are dropped.
	//
	// If LogBuffer is less than one, logger.DefaultBuffer is used.
	LogBuffer int
	// PreviewDelay is how long each execution waits in the Preview
	// environment.
	//
	// If PreviewDelay is zero, DefaultPreviewDelay is used. A negative
	// value disables the delay.
	PreviewDelay time.Duration
	// Limiter, if not nil, limits the rate of attempts made by the
	// controller. Waiting for the limiter is cancellable.
	Limiter *rate.Limiter
	// RequestIDHeader, if not empty, is a header set to the execution
	// ID on every request.
	RequestIDHeader string
	// ErrorBody, if not nil, returns a new pointer to an application
	// error value. The controller decodes non-2xx response bodies into
	// it and, if decoding succeeds, fails the call with that value.
	// Otherwise the call fails with a fault.Unknown error carrying the
	// status code.
	ErrorBody func() error
	// MapError, if not nil, converts every *fault.Error the controller
	// returns into an application error. Errors decoded by ErrorBody
	// are returned as they are.
	MapError func(*fault.Error) error

	once       sync.Once
	dispatcher *logger.Dispatcher
}

// Do executes a request to ep and decodes the response into target,
// which must be a non-nil pointer, or nil to discard the response.
//
// The returned Execution is never nil. If the returned error is not
// nil it is the same as the Execution's Err field, and is either a
// *fault.Error (or what MapError made of it) or a value returned by
// ErrorBody. Target is only meaningful when the error is nil.
//
// If ctx is cancelled, any wait or network call in progress is
// abandoned, no retries follow, and Do fails with a fault.Connection
// error wrapping the context's error.
func (c *Controller) Do(ctx context.Context, ep request.Endpoint, target any) (*request.Execution, error) {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	if ep == nil {
		panic("apix: nil endpoint")
	}

	e := &request.Execution{
		ID:       uuid.NewString(),
		Endpoint: ep,
		Context:  ctx,
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()

	var err error
	if c.Environment != Live || ep.UsesSampleData() {
		err = c.mock(ctx, e, target)
	} else {
		err = c.live(ctx, e, target, handlers)
	}

	if err != nil {
		c.logFailure(e, err)
		err = c.surface(err)
	}
	e.Err = err
	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)
	return e, e.Err
}

func (c *Controller) mock(ctx context.Context, e *request.Execution, target any) error {
	ep := e.Endpoint
	ic := c.interceptor()
	e.Mock = true

	req, err := request.Build(ctx, ep)
	if err != nil {
		return err
	}
	c.identify(req, e)
	ic.InterceptRequest(req)
	e.Request = req

	if c.Environment == Preview {
		if err = sleep(ctx, c.previewDelay()); err != nil {
			return fault.NewConnection().WithCause(err)
		}
	}

	body := append([]byte(nil), ep.SampleData()...)
	e.Body = ic.InterceptResponseBytes(body)
	c.logAttempt(e)
	return decode(ep, e.Body, target)
}

func (c *Controller) live(ctx context.Context, e *request.Execution, target any, handlers *HandlerGroup) error {
	ic := c.interceptor()
	policy := c.RetryPolicy
	if policy == nil {
		policy = retry.DefaultPolicy
	}

	authenticated := false
	for {
		if err := gate(ctx, ic, &authenticated); err != nil {
			return err
		}

		retryable, err := c.attempt(ctx, e, target, handlers)
		if !retryable {
			if err != nil {
				ic.InterceptError(err)
			}
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fault.NewConnection().WithCause(ctxErr)
			ic.InterceptError(err)
			return err
		}

		if !policy.Decide(e) {
			ic.InterceptError(err)
			return err
		}

		handlers.run(BeforeRetryWait, e)
		if werr := sleep(ctx, policy.Wait(e)); werr != nil {
			err = fault.NewConnection().WithCause(werr)
			ic.InterceptError(err)
			return err
		}

		ic.InterceptError(err)
		e.Attempt++
	}
}

// gate checks the authentication state and, the first time it is
// passed, authenticates.
func gate(ctx context.Context, ic Interceptor, authenticated *bool) error {
	switch ic.AuthenticationState(ctx) {
	case NotReachable:
		return fault.NewConnection()
	case NotLoggedIn:
		return fault.NewAuthentication()
	}

	if *authenticated {
		return nil
	}
	ok, err := ic.Authenticate(ctx)
	if err != nil {
		return fault.NewConnection().WithCause(err)
	}
	if !ok {
		return fault.NewAuthentication()
	}
	*authenticated = true
	return nil
}

// attempt makes attempt number e.Attempt. It returns whether the
// attempt's error is a failure which the retry policy may retry, and
// the error itself.
func (c *Controller) attempt(ctx context.Context, e *request.Execution, target any, handlers *HandlerGroup) (bool, error) {
	ep := e.Endpoint
	ic := c.interceptor()

	d := c.timeoutPolicy().Timeout(e)
	e.Request = nil
	e.Response = nil
	e.Err = nil
	e.Body = nil

	req, err := request.Build(ctx, ep)
	if err != nil {
		return false, err
	}
	c.identify(req, e)
	ic.InterceptRequest(req)

	if c.Limiter != nil {
		if err = c.Limiter.Wait(ctx); err != nil {
			return false, fault.NewConnection().WithCause(err)
		}
	}

	attemptCtx, cancel := ctx, context.CancelFunc(func() {})
	if d != timeout.None {
		attemptCtx, cancel = context.WithTimeout(ctx, d)
	}
	defer cancel()

	e.Request = req.WithContext(attemptCtx)
	handlers.run(BeforeAttempt, e)
	e.Attempts++

	resp, err := c.doer().Do(e.Request)
	if err != nil {
		c.failAttempt(e, fault.NewConnection().WithCause(err), handlers)
		return true, e.Err
	}

	e.Response = resp
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		c.failAttempt(e, fault.NewConnection().WithCause(err).WithStatus(resp.StatusCode), handlers)
		return true, e.Err
	}

	e.Body = ic.InterceptResponseBytes(body)
	c.logAttempt(e)

	if status.IsSuccess(resp.StatusCode) {
		handlers.run(AfterAttempt, e)
		return false, decode(ep, e.Body, target)
	}

	e.Err = c.errorFromBody(ep, resp.StatusCode, e.Body)
	handlers.run(AfterAttempt, e)
	return true, e.Err
}

func (c *Controller) failAttempt(e *request.Execution, err *fault.Error, handlers *HandlerGroup) {
	e.Err = err
	if e.Timeout() {
		e.AttemptTimeouts++
	}
	handlers.run(AfterAttempt, e)
}

func (c *Controller) errorFromBody(ep request.Endpoint, code int, body []byte) error {
	if c.ErrorBody != nil {
		if target := c.ErrorBody(); target != nil {
			if codec.Decode(body, target, ep.DateDecoding(), ep.KeyDecoding()) == nil {
				return target
			}
		}
	}
	return fault.NewUnknown("status " + strconv.Itoa(code)).WithStatus(code)
}

func decode(ep request.Endpoint, body []byte, target any) error {
	if m, ok := target.(Mapper); ok {
		mapped, err := m.MapResponse(body)
		if err != nil {
			return fault.NewDecoding("map response: " + err.Error()).WithCause(err)
		}
		body = mapped
	}
	if target == nil {
		return nil
	}
	return codec.Decode(body, target, ep.DateDecoding(), ep.KeyDecoding())
}

func (c *Controller) identify(req *http.Request, e *request.Execution) {
	if c.RequestIDHeader != "" {
		req.Header.Set(c.RequestIDHeader, e.ID)
	}
}

func (c *Controller) surface(err error) error {
	if c.MapError == nil {
		return err
	}
	if f, ok := err.(*fault.Error); ok {
		if mapped := c.MapError(f); mapped != nil {
			return mapped
		}
	}
	return err
}

// CloseIdleConnections invokes the same method on the controller's
// HTTPDoer, if it has one.
func (c *Controller) CloseIdleConnections() {
	if ic, ok := c.doer().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// Close waits for pending log entries to be written and stops the log
// writer. Requests made after Close are not logged. Close is
// idempotent and always returns nil.
func (c *Controller) Close() error {
	c.once.Do(func() {})
	if c.dispatcher != nil {
		return c.dispatcher.Close()
	}
	return nil
}

// DroppedLogs returns the number of log entries dropped because the
// log buffer was full or the controller was closed.
func (c *Controller) DroppedLogs() uint64 {
	if d := c.logs(); d != nil {
		return d.Dropped()
	}
	return 0
}

func (c *Controller) interceptor() Interceptor {
	if c.Interceptor == nil {
		return NopInterceptor{}
	}

	return c.Interceptor
}

func (c *Controller) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Controller) timeoutPolicy() timeout.Policy {
	if c.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}

	return c.TimeoutPolicy
}

func (c *Controller) previewDelay() time.Duration {
	if c.PreviewDelay == 0 {
		return DefaultPreviewDelay
	}
	return c.PreviewDelay
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
