// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, Not},
		{"plain", errors.New("foo"), Not},
		{"empty wrapper", wrapper{}, Not},
		{"wrapped plain", wrapper{errors.New("bar")}, Not},
		{"canceled", context.Canceled, Not},
		{"ETIMEDOUT", syscall.ETIMEDOUT, Timeout},
		{"timeout", timeout{}, Timeout},
		{"deadline", context.DeadlineExceeded, Timeout},
		{"url ETIMEDOUT", &url.Error{Err: syscall.ETIMEDOUT}, Timeout},
		{"url timeout", &url.Error{Err: timeout{}}, Timeout},
		{"wrapped url ETIMEDOUT", wrapper{&url.Error{Err: syscall.ETIMEDOUT}}, Timeout},
		{"double wrapped timeout", wrapper{wrapper{timeout{}}}, Timeout},
		{"timeout over reset", timeoutWrapper{true, syscall.ECONNRESET}, Timeout},
		{"timeout over refused", wrapper{timeoutWrapper{true, syscall.ECONNREFUSED}}, Timeout},
		{"ECONNRESET", syscall.ECONNRESET, ConnReset},
		{"wrapped ECONNRESET", wrapper{syscall.ECONNRESET}, ConnReset},
		{"no timeout reset", timeoutWrapper{false, syscall.ECONNRESET}, ConnReset},
		{"ECONNREFUSED", syscall.ECONNREFUSED, ConnRefused},
		{"wrapped ECONNREFUSED", wrapper{syscall.ECONNREFUSED}, ConnRefused},
		{"url refused", &url.Error{Err: wrapper{timeoutWrapper{false, syscall.ECONNREFUSED}}}, ConnRefused},
		{"EOF", io.EOF, Closed},
		{"unexpected EOF", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), Closed},
		{"url EOF", &url.Error{Op: "Get", URL: "http://x.test", Err: io.EOF}, Closed},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, Categorize(testCase.err))
		})
	}
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "not", Not.String())
	assert.Equal(t, "timeout", Timeout.String())
	assert.Equal(t, "connRefused", ConnRefused.String())
	assert.Equal(t, "connReset", ConnReset.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "Category(99)", Category(99).String())
	assert.Equal(t, "Category(-1)", Category(-1).String())
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
