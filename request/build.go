// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gogama/apix/codec"
	"github.com/gogama/apix/fault"
	"golang.org/x/net/http/httpguts"
)

const nilCtxMsg = "apix/request: nil context"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("httptoken", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && strings.IndexFunc(s, isNotToken) == -1
	})
	return v
}

// shape is the part of an Endpoint checked before a request is built.
type shape struct {
	BaseURL string `validate:"required,url"`
	Method  string `validate:"httptoken"`
}

// Validate checks that ep describes a request which can be built: its
// base URL must be an absolute URL and its method a valid HTTP token.
// Any error is a *fault.Error of kind Encoding.
func Validate(ep Endpoint) error {
	if ep == nil {
		return fault.NewEncoding("nil endpoint")
	}
	s := shape{BaseURL: ep.BaseURL(), Method: string(ep.Method())}
	if err := validate.Struct(&s); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
			fe := ves[0]
			return fault.NewEncoding(fmt.Sprintf("invalid endpoint: %s failed %q check (value %q)",
				fe.Field(), fe.Tag(), fe.Value())).WithCause(err)
		}
		return fault.NewEncoding("invalid endpoint: " + err.Error()).WithCause(err)
	}
	return nil
}

// URL returns the URL for ep: its base URL with its path appended if
// the path is non-empty, and its task's query parameters merged into
// any query the base URL already has.
//
// The path is always appended as a path suffix. Exactly one slash
// separates the base URL's path from ep's path, regardless of whether
// either has a slash at the join.
func URL(ep Endpoint) (*urlpkg.URL, error) {
	u, err := urlpkg.Parse(ep.BaseURL())
	if err != nil {
		return nil, fault.NewEncoding("invalid base URL: " + err.Error()).WithCause(err)
	}
	if p := ep.Path(); p != "" {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(p, "/")
		u.RawPath = ""
	}
	if params := ep.Task().Params(); len(params) > 0 {
		q := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			addQuery(q, k, params[k])
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// addQuery adds v to q under key k. Slices and arrays add one value
// per element, except []byte which is added as a string.
func addQuery(q urlpkg.Values, k string, v any) {
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		for i := 0; i < rv.Len(); i++ {
			q.Add(k, codec.QueryString(rv.Index(i).Interface()))
		}
		return
	}
	q.Add(k, codec.QueryString(v))
}

// Build creates the wire request described by ep, with context ctx.
//
// Build is pure apart from reading a reader body, if the task has one.
// It validates ep, assembles the URL, encodes the body if the task has
// one, and sets the endpoint headers. If the task has a body and the
// endpoint sets no Content-Type header, Content-Type is set to
// application/json.
//
// Body encoding happens before query construction, so a body encoding
// failure takes precedence. Every error is a *fault.Error of kind
// Encoding.
func Build(ctx context.Context, ep Endpoint) (*http.Request, error) {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	if err := Validate(ep); err != nil {
		return nil, err
	}

	var body []byte
	task := ep.Task()
	v, hasBody := task.Value()
	if hasBody {
		var err error
		body, err = BodyBytes(v, ep.DateEncoding(), ep.KeyEncoding())
		if err != nil {
			return nil, err
		}
	}

	u, err := URL(ep)
	if err != nil {
		return nil, err
	}

	r, err := http.NewRequestWithContext(ctx, string(ep.Method()), u.String(), nil)
	if err != nil {
		return nil, fault.NewEncoding(err.Error()).WithCause(err)
	}
	if hasBody {
		setBody(r, body)
	}
	for name, value := range ep.Headers() {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fault.NewEncoding(fmt.Sprintf("invalid header name %q", name))
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fault.NewEncoding(fmt.Sprintf("invalid value for header %q", name))
		}
		r.Header.Set(name, value)
	}
	if hasBody && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	return r, nil
}

func setBody(r *http.Request, body []byte) {
	r.ContentLength = int64(len(body))
	r.Body = http.NoBody
	r.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
	if len(body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}
