// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"reflect"

	"github.com/gogama/apix/codec"
)

// A Method is an HTTP request method token.
type Method string

// Standard HTTP methods.
const (
	Get     Method = "GET"
	Post    Method = "POST"
	Put     Method = "PUT"
	Patch   Method = "PATCH"
	Delete  Method = "DELETE"
	Head    Method = "HEAD"
	Options Method = "OPTIONS"
	Connect Method = "CONNECT"
	Trace   Method = "TRACE"
)

// Methods returns all the standard methods.
func Methods() []Method {
	return []Method{Get, Post, Put, Patch, Delete, Head, Options, Connect, Trace}
}

// String returns the method token.
func (m Method) String() string {
	return string(m)
}

// An Endpoint describes one API call: where to send it, how to shape
// it, how its payloads are encoded, how many times to retry it, and
// what to return instead when not talking to a live server.
//
// Endpoint implementations must be immutable and safe for concurrent
// use, since one Endpoint value may be in use by several requests at
// once.
//
// Most implementations embed Defaults and define only the methods they
// need to change. BaseURL has no default and must always be defined.
type Endpoint interface {
	// BaseURL returns the absolute URL the path is appended to.
	BaseURL() string
	// Path returns the path to append to BaseURL. An empty path means
	// BaseURL is used as-is. A path is always appended, never
	// substituted, even if it starts with a slash.
	Path() string
	// Method returns the request method.
	Method() Method
	// Task returns the body and query parameter shape of the request.
	Task() Task
	// Headers returns headers to set on the request. May be nil.
	Headers() map[string]string
	// KeyEncoding returns the key strategy for the request body.
	KeyEncoding() codec.KeyStrategy
	// DateEncoding returns the date strategy for the request body.
	DateEncoding() codec.DateStrategy
	// KeyDecoding returns the key strategy for the response body.
	KeyDecoding() codec.KeyStrategy
	// DateDecoding returns the date strategy for the response body.
	DateDecoding() codec.DateStrategy
	// RetryCount returns the number of times a failed attempt may be
	// retried. A negative count is treated as zero.
	RetryCount() int
	// SampleData returns the bytes to decode instead of making a
	// network call. It is only consulted outside the live environment,
	// or when UsesSampleData reports true.
	SampleData() []byte
	// UsesSampleData reports whether the endpoint always uses its
	// sample data, even in the live environment.
	UsesSampleData() bool
	// ShouldLog reports whether requests to the endpoint are logged.
	ShouldLog() bool
}

// Defaults supplies the default behavior of every Endpoint method
// except BaseURL. Embed it in an endpoint type to inherit the defaults:
//
//	type userEndpoint struct {
//		request.Defaults
//		id int
//	}
//
//	func (e userEndpoint) BaseURL() string { return "https://api.example.com" }
//	func (e userEndpoint) Path() string    { return fmt.Sprintf("/users/%d", e.id) }
//
// The defaults are: empty path, GET, an empty task, no headers, the
// default key and date strategies in both directions, no retries, no
// sample data, and logging enabled.
type Defaults struct{}

func (Defaults) Path() string { return "" }
func (Defaults) Method() Method { return Get }
func (Defaults) Task() Task { return Task{} }
func (Defaults) Headers() map[string]string { return nil }
func (Defaults) KeyEncoding() codec.KeyStrategy { return codec.DefaultKeys }
func (Defaults) DateEncoding() codec.DateStrategy { return codec.DefaultDates }
func (Defaults) KeyDecoding() codec.KeyStrategy { return codec.DefaultKeys }
func (Defaults) DateDecoding() codec.DateStrategy { return codec.DefaultDates }
func (Defaults) RetryCount() int { return 0 }
func (Defaults) SampleData() []byte { return nil }
func (Defaults) UsesSampleData() bool { return false }
func (Defaults) ShouldLog() bool { return true }

// Strategies pairs a key strategy with a date strategy.
type Strategies struct {
	Keys  codec.KeyStrategy
	Dates codec.DateStrategy
}

// A Descriptor is a ready-made Endpoint whose behavior is specified
// entirely by field values. Its zero value, once URL is set, is a GET
// to URL with all the defaults described on Defaults.
type Descriptor struct {
	// Label names the endpoint in logs. If empty, the method and path
	// are used.
	Label string
	// URL is the base URL.
	URL string
	// Route is the path appended to URL.
	Route string
	// Verb is the method. Empty means GET.
	Verb Method
	// Payload is the body and query parameter shape.
	Payload Task
	// Header contains the headers to set.
	Header map[string]string
	// Encoding holds the request body strategies.
	Encoding Strategies
	// Decoding holds the response body strategies.
	Decoding Strategies
	// Retries is the retry count.
	Retries int
	// Sample is the sample data.
	Sample []byte
	// AlwaysSample forces use of the sample data.
	AlwaysSample bool
	// Quiet disables logging.
	Quiet bool
}

func (d *Descriptor) BaseURL() string { return d.URL }
func (d *Descriptor) Path() string { return d.Route }
func (d *Descriptor) Task() Task { return d.Payload }
func (d *Descriptor) Headers() map[string]string { return d.Header }
func (d *Descriptor) KeyEncoding() codec.KeyStrategy { return d.Encoding.Keys }
func (d *Descriptor) DateEncoding() codec.DateStrategy { return d.Encoding.Dates }
func (d *Descriptor) KeyDecoding() codec.KeyStrategy { return d.Decoding.Keys }
func (d *Descriptor) DateDecoding() codec.DateStrategy { return d.Decoding.Dates }
func (d *Descriptor) RetryCount() int { return d.Retries }
func (d *Descriptor) SampleData() []byte { return d.Sample }
func (d *Descriptor) UsesSampleData() bool { return d.AlwaysSample }
func (d *Descriptor) ShouldLog() bool { return !d.Quiet }

func (d *Descriptor) Method() Method {
	if d.Verb == "" {
		return Get
	}
	return d.Verb
}

// Name returns Label, or the method and route when Label is empty.
func (d *Descriptor) Name() string {
	if d.Label != "" {
		return d.Label
	}
	return fmt.Sprintf("%s %s", d.Method(), d.Route)
}

// A Namer is an Endpoint with a name for use in logs.
type Namer interface {
	Name() string
}

// Identity returns the name under which ep is logged. It is the result
// of Name if ep is a Namer, of String if ep is a fmt.Stringer, and
// otherwise the name of ep's dynamic type.
func Identity(ep Endpoint) string {
	switch x := ep.(type) {
	case nil:
		return "<nil>"
	case Namer:
		return x.Name()
	case fmt.Stringer:
		return x.String()
	}
	t := reflect.TypeOf(ep)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

// Retries returns ep.RetryCount(), clamped to be at least zero.
func Retries(ep Endpoint) int {
	n := ep.RetryCount()
	if n < 0 {
		return 0
	}
	return n
}
