// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gogama/apix/status"
)

// MaxBodyLog is the most response body bytes an entry logs. Longer
// bodies are truncated.
const MaxBodyLog = 64 << 10

// An Entry is one line of the request log: either one attempt which
// received bytes, one sample data execution, or one terminal failure.
type Entry struct {
	// Endpoint is the endpoint identity.
	Endpoint string
	// RequestID is the execution ID.
	RequestID string
	// Mock is true for sample data executions.
	Mock bool
	// Attempt is the zero-based attempt index.
	Attempt int
	// Method and URL describe the wire request.
	Method string
	URL    *url.URL
	// RequestHeader is the wire request header after interception.
	RequestHeader http.Header
	// RequestBody is the encoded request body, if any.
	RequestBody []byte
	// StatusCode is the response status, or zero if there was no
	// response.
	StatusCode int
	// ResponseHeader is the response header, if there was a response.
	ResponseHeader http.Header
	// Body is the response body, or the sample data.
	Body []byte
	// Err is set on terminal failure entries.
	Err error
	// Duration is the time from the start of the execution.
	Duration time.Duration
}

// Failed reports whether the entry records a failure. An entry with no
// response and no error is a success.
func (e *Entry) Failed() bool {
	return e.Err != nil || (e.StatusCode != 0 && !status.IsSuccess(e.StatusCode))
}

// Write renders e to l, masking sensitive values with f.
func (e *Entry) Write(l Logger, f *Filter) {
	var ev LogEvent
	mark := "✅"
	if e.Failed() {
		ev = l.Error()
		mark = "💔"
	} else {
		ev = l.Info()
	}

	name := e.Endpoint
	if e.Mock {
		name += " (mock)"
	}
	ev = ev.Str("endpoint", name).
		Str("request_id", e.RequestID).
		Int("attempt", e.Attempt).
		Str("method", e.Method).
		Str("url", f.URL(e.URL)).
		Int("status", e.StatusCode).
		Str("outcome", status.Label(e.StatusCode)).
		Dur("elapsed", e.Duration)
	if e.RequestHeader != nil {
		ev = ev.Interface("request_headers", f.Header(e.RequestHeader))
	}
	if len(e.RequestBody) > 0 {
		ev = ev.Str("request_body", PrettyJSON(e.RequestBody))
	}
	if e.ResponseHeader != nil {
		ev = ev.Interface("response_headers", f.Header(e.ResponseHeader))
	}
	if len(e.Body) > 0 {
		ev = ev.Str("body", PrettyJSON(e.Body))
	}
	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	ev.Msgf("%s %s %s", mark, e.Method, name)
}

// PrettyJSON returns b indented with two spaces if it is valid JSON, and
// b as a string otherwise. Bodies over MaxBodyLog bytes are truncated
// without indentation.
func PrettyJSON(b []byte) string {
	if len(b) > MaxBodyLog {
		return string(b[:MaxBodyLog]) + "…"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return string(b)
	}
	return buf.String()
}
