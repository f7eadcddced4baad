// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package observability traces controller executions and records
// request metrics with OpenTelemetry.
//
// Install a Handler into the controller's handler group:
//
//	handlers := &apix.HandlerGroup{}
//	observability.NewHandler(observability.Options{}).Install(handlers)
//	ctrl := &apix.Controller{Handlers: handlers}
//
// Each execution produces one span named after the endpoint, with one
// child client span per attempt. The trace context of the attempt span is
// injected into the outgoing request headers.
package observability

import (
	"context"

	"github.com/gogama/apix"
	"github.com/gogama/apix/fault"
	"github.com/gogama/apix/logger"
	"github.com/gogama/apix/request"
	"github.com/gogama/apix/status"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope of the tracer and meter.
const ScopeName = "github.com/gogama/apix/observability"

// Metric names.
const (
	MetricExecutionDuration = "apix.client.execution.duration"
	MetricExecutions        = "apix.client.executions"
	MetricAttempts          = "apix.client.attempts"
)

// Attribute keys which are not covered by semantic conventions.
const (
	AttrEndpoint = attribute.Key("apix.endpoint")
	AttrMock     = attribute.Key("apix.mock")
	AttrAttempt  = attribute.Key("apix.attempt")
	AttrAttempts = attribute.Key("apix.attempts")
	AttrOutcome  = attribute.Key("apix.outcome")
)

// Options configures a Handler. The zero value uses the global
// OpenTelemetry providers and propagator.
type Options struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Propagator     propagation.TextMapPropagator
	// Filter masks sensitive query values in recorded URLs. If nil,
	// logger.DefaultFilter is used.
	Filter *logger.Filter
}

// A Handler is an apix.Handler which traces executions and records
// metrics.
type Handler struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	filter     *logger.Filter

	duration   metric.Float64Histogram
	executions metric.Int64Counter
	attempts   metric.Int64Counter
}

type executionKey struct{}

type attemptKey struct{}

type executionState struct {
	ctx  context.Context
	span trace.Span
}

// NewHandler creates a Handler. Instruments which cannot be created
// are reported to the global OpenTelemetry error handler and left
// unrecorded.
func NewHandler(opts Options) *Handler {
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	h := &Handler{
		tracer:     tp.Tracer(ScopeName),
		propagator: opts.Propagator,
		filter:     opts.Filter,
	}
	if h.propagator == nil {
		h.propagator = otel.GetTextMapPropagator()
	}
	if h.filter == nil {
		h.filter = logger.DefaultFilter()
	}

	meter := mp.Meter(ScopeName)
	var err error
	h.duration, err = meter.Float64Histogram(
		MetricExecutionDuration,
		metric.WithDescription("Duration of request executions including retries"),
		metric.WithUnit("s"),
	)
	reportErr(err)
	h.executions, err = meter.Int64Counter(
		MetricExecutions,
		metric.WithDescription("Number of request executions"),
		metric.WithUnit("{execution}"),
	)
	reportErr(err)
	h.attempts, err = meter.Int64Counter(
		MetricAttempts,
		metric.WithDescription("Number of HTTP request attempts"),
		metric.WithUnit("{attempt}"),
	)
	reportErr(err)
	return h
}

func reportErr(err error) {
	if err != nil {
		otel.Handle(err)
	}
}

// Install adds h to every event chain of g.
func (h *Handler) Install(g *apix.HandlerGroup) {
	for _, evt := range apix.Events() {
		g.PushBack(evt, h)
	}
}

// Handle implements apix.Handler.
func (h *Handler) Handle(evt apix.Event, e *request.Execution) {
	switch evt {
	case apix.BeforeExecutionStart:
		h.start(e)
	case apix.BeforeAttempt:
		h.beforeAttempt(e)
	case apix.AfterAttempt:
		h.afterAttempt(e)
	case apix.BeforeRetryWait:
		if st := execution(e); st != nil {
			st.span.AddEvent("retry", trace.WithAttributes(AttrAttempt.Int(e.Attempt)))
		}
	case apix.AfterExecutionEnd:
		h.end(e)
	}
}

func (h *Handler) start(e *request.Execution) {
	parent := e.Context
	if parent == nil {
		parent = context.Background()
	}
	name := request.Identity(e.Endpoint)
	ctx, span := h.tracer.Start(parent, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrEndpoint.String(name),
			semconv.HTTPRequestMethodKey.String(e.Endpoint.Method().String()),
		),
	)
	e.SetValue(executionKey{}, &executionState{ctx: ctx, span: span})
}

func (h *Handler) beforeAttempt(e *request.Execution) {
	st := execution(e)
	if st == nil || e.Request == nil {
		return
	}
	ctx, span := h.tracer.Start(st.ctx, "attempt",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrAttempt.Int(e.Attempt),
			semconv.HTTPRequestMethodKey.String(e.Request.Method),
			semconv.URLFull(h.filter.URL(e.Request.URL)),
		),
	)
	h.propagator.Inject(ctx, propagation.HeaderCarrier(e.Request.Header))
	e.SetValue(attemptKey{}, span)
}

func (h *Handler) afterAttempt(e *request.Execution) {
	span, _ := e.Value(attemptKey{}).(trace.Span)
	if span == nil {
		return
	}
	code := e.StatusCode()
	attrs := []attribute.KeyValue{
		AttrEndpoint.String(request.Identity(e.Endpoint)),
		AttrOutcome.String(status.Label(code)),
	}
	if code != 0 {
		span.SetAttributes(semconv.HTTPResponseStatusCode(code))
	}
	if e.Failed() {
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, e.Err.Error())
		} else {
			span.SetStatus(codes.Error, status.Label(code))
		}
	}
	span.End()
	e.SetValue(attemptKey{}, nil)

	if h.attempts != nil {
		ctx := context.Background()
		if st := execution(e); st != nil {
			ctx = st.ctx
		}
		h.attempts.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func (h *Handler) end(e *request.Execution) {
	st := execution(e)
	if st == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrEndpoint.String(request.Identity(e.Endpoint)),
		AttrMock.Bool(e.Mock),
	}
	if e.Err != nil {
		attrs = append(attrs, semconv.ErrorTypeKey.String(errorType(e.Err)))
	}

	st.span.SetAttributes(append(attrs, AttrAttempts.Int(e.Attempts))...)
	if code := e.StatusCode(); code != 0 {
		st.span.SetAttributes(semconv.HTTPResponseStatusCode(code))
	}
	if e.Err != nil {
		st.span.RecordError(e.Err)
		st.span.SetStatus(codes.Error, e.Err.Error())
	}
	st.span.End(trace.WithTimestamp(e.End))

	if h.executions != nil {
		h.executions.Add(st.ctx, 1, metric.WithAttributes(attrs...))
	}
	if h.duration != nil {
		h.duration.Record(st.ctx, e.Duration().Seconds(), metric.WithAttributes(attrs...))
	}
}

func execution(e *request.Execution) *executionState {
	st, _ := e.Value(executionKey{}).(*executionState)
	return st
}

// errorType names the error in metrics: the fault kind, or
// "application" for errors decoded from server error bodies.
func errorType(err error) string {
	if f, ok := fault.As(err); ok {
		return f.Kind.String()
	}
	return "application"
}

var _ apix.Handler = (*Handler)(nil)
