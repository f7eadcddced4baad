// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"context"
	"net/http"
)

// AuthenticationState is the answer of an Interceptor to whether a
// request can be attempted.
type AuthenticationState int

const (
	// Reachable means requests may proceed.
	Reachable AuthenticationState = iota
	// NotReachable means there is no network connection. Requests fail
	// with a fault.Connection error.
	NotReachable
	// NotLoggedIn means the user must sign in. Requests fail with a
	// fault.Authentication error.
	NotLoggedIn
)

var authenticationStateNames = []string{"reachable", "notReachable", "notLoggedIn"}

// String returns the name of s.
func (s AuthenticationState) String() string {
	if s < 0 || int(s) >= len(authenticationStateNames) {
		return "AuthenticationState(?)"
	}
	return authenticationStateNames[s]
}

// An Interceptor gates, rewrites and observes the requests made by a
// Controller. Embed NopInterceptor to implement only the methods you
// need.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Interceptor interface {
	// AuthenticationState is consulted before every live attempt.
	AuthenticationState(ctx context.Context) AuthenticationState
	// Authenticate is called once per live request, after the first
	// AuthenticationState check passes. Returning false fails the
	// request with an Authentication error; returning an error fails it
	// with a Connection error.
	Authenticate(ctx context.Context) (bool, error)
	// InterceptRequest may modify each wire request before it is sent,
	// for example to add credentials.
	InterceptRequest(r *http.Request)
	// InterceptResponseBytes may rewrite each response body before it is
	// logged and decoded. It returns the body to use.
	InterceptResponseBytes(b []byte) []byte
	// InterceptError observes every attempt failure which is about to be
	// retried and the final failure of every live request that got past
	// the authentication gate. err is a *fault.Error, or the value
	// decoded from a server error body. InterceptError cannot change
	// the error.
	InterceptError(err error)
}

// NopInterceptor is an Interceptor which always reports Reachable,
// always authenticates, and changes nothing.
type NopInterceptor struct{}

var _ Interceptor = NopInterceptor{}

// AuthenticationState returns Reachable.
func (NopInterceptor) AuthenticationState(context.Context) AuthenticationState { return Reachable }

// Authenticate returns true.
func (NopInterceptor) Authenticate(context.Context) (bool, error) { return true, nil }

// InterceptRequest does nothing.
func (NopInterceptor) InterceptRequest(*http.Request) {}

// InterceptResponseBytes returns b unchanged.
func (NopInterceptor) InterceptResponseBytes(b []byte) []byte { return b }

// InterceptError does nothing.
func (NopInterceptor) InterceptError(error) {}
