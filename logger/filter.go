// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logger

import (
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaskValue replaces masked values.
const DefaultMaskValue = "***"

// DefaultSensitive lists the default sensitive key fragments. A key is
// sensitive if, lowercased and with dashes turned into underscores, it
// contains any fragment.
var DefaultSensitive = []string{
	"password", "passwd", "secret",
	"api_key", "apikey", "token",
	"authorization", "auth", "cookie",
	"credential", "session",
}

// A Filter masks the values of sensitive keys in headers, URL query
// strings and log fields. A nil *Filter masks nothing.
type Filter struct {
	fragments []string
	mask      string
}

// NewFilter returns a filter treating keys containing any of fragments
// as sensitive.
func NewFilter(fragments ...string) *Filter {
	lower := make([]string, len(fragments))
	for i := range fragments {
		lower[i] = normalize(fragments[i])
	}
	return &Filter{fragments: lower, mask: DefaultMaskValue}
}

// DefaultFilter returns a filter using DefaultSensitive.
func DefaultFilter() *Filter {
	return NewFilter(DefaultSensitive...)
}

func normalize(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "-", "_")
}

// IsSensitive reports whether key is sensitive.
func (f *Filter) IsSensitive(key string) bool {
	if f == nil {
		return false
	}
	k := normalize(key)
	for _, frag := range f.fragments {
		if strings.Contains(k, frag) {
			return true
		}
	}
	return false
}

// String returns value, or the mask if key is sensitive and value is
// non-empty.
func (f *Filter) String(key, value string) string {
	if value != "" && f.IsSensitive(key) {
		return f.mask
	}
	return value
}

// Value is like String for arbitrary values. Nested maps of type
// map[string]any and map[string]string are filtered recursively.
func (f *Filter) Value(key string, value any) any {
	if value != nil && f.IsSensitive(key) {
		return f.mask
	}
	switch m := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = f.Value(k, v)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, v := range m {
			out[k] = f.String(k, v)
		}
		return out
	}
	return value
}

// Header flattens h into a map, joining repeated values with ", " and
// masking the values of sensitive headers. A nil header yields nil.
func (f *Filter) Header(h http.Header) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[k] = f.String(k, strings.Join(vs, ", "))
	}
	return out
}

// URL returns u as a string with sensitive query parameter values and
// any password masked. If a parameter is masked, the query is
// re-encoded in key order.
func (f *Filter) URL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if f == nil {
		return u.String()
	}
	u2 := *u
	if u2.User != nil {
		if _, ok := u2.User.Password(); ok {
			u2.User = url.UserPassword(u2.User.Username(), f.mask)
		}
	}
	if u2.RawQuery != "" {
		q := u2.Query()
		masked := false
		for k, vs := range q {
			if f.IsSensitive(k) {
				for i := range vs {
					vs[i] = f.mask
				}
				masked = true
			}
		}
		if masked {
			u2.RawQuery = q.Encode()
		}
	}
	return u2.String()
}
