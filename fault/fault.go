// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
	"strconv"
)

// A Kind identifies one of the closed set of error categories.
type Kind int

const (
	// Unknown indicates a failure which fits no other category, for
	// example a failed response whose body could not be understood.
	Unknown Kind = iota
	// Connection indicates the server could not be reached, either
	// because the interceptor reported the network as unreachable,
	// authentication failed with an error, or the transport failed.
	Connection
	// Authentication indicates the caller is not logged in or
	// authentication was refused.
	Authentication
	// Decoding indicates response bytes could not be decoded into the
	// requested shape.
	Decoding
	// Encoding indicates the wire request could not be built, usually
	// because the request body could not be serialized.
	Encoding
)

var kindNames = []string{
	"unknownError",
	"connectionError",
	"authenticationError",
	"decodingError",
	"encodingError",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// An Error is a taxonomy error. Its zero value is an Unknown error
// without detail.
//
// Detail carries a diagnostic message. It is always set for Decoding
// and Encoding errors, optional for Unknown errors, and never set for
// Connection and Authentication errors.
//
// Cause optionally references the lower-level error the taxonomy error
// was derived from (a transport error, context cancellation, and so
// on). It is exposed through Unwrap so errors.Is and errors.As see it,
// but it is never surfaced by itself.
type Error struct {
	Kind       Kind
	Detail     string
	HasDetail  bool
	StatusCode int
	Cause      error
}

// NewConnection returns a new Connection error.
func NewConnection() *Error {
	return &Error{Kind: Connection}
}

// NewAuthentication returns a new Authentication error.
func NewAuthentication() *Error {
	return &Error{Kind: Authentication}
}

// NewDecoding returns a new Decoding error with the given diagnostic
// detail.
func NewDecoding(detail string) *Error {
	return &Error{Kind: Decoding, Detail: detail, HasDetail: true}
}

// NewEncoding returns a new Encoding error with the given diagnostic
// detail.
func NewEncoding(detail string) *Error {
	return &Error{Kind: Encoding, Detail: detail, HasDetail: true}
}

// NewUnknown returns a new Unknown error. If detail is given, the
// first value is used as the diagnostic detail.
func NewUnknown(detail ...string) *Error {
	e := &Error{Kind: Unknown}
	if len(detail) > 0 {
		e.Detail = detail[0]
		e.HasDetail = true
	}
	return e
}

// WithCause returns a shallow copy of e with Cause set to err.
func (e *Error) WithCause(err error) *Error {
	e2 := *e
	e2.Cause = err
	return &e2
}

// WithStatus returns a shallow copy of e with StatusCode set to code.
func (e *Error) WithStatus(code int) *Error {
	e2 := *e
	e2.StatusCode = code
	return &e2
}

// Error returns the kind name, followed by the detail if there is one.
func (e *Error) Error() string {
	s := e.Kind.String()
	if e.HasDetail {
		s += ": " + e.Detail
	} else if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the cause of the error, which may be nil.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind. The detail
// is not compared, so errors.Is(err, fault.NewDecoding("")) matches any
// decoding error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain. A nil
// error, or an error with no *Error in its chain, reports Unknown.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Unknown
}

// From converts any error into a taxonomy error. A nil err yields nil;
// an err already containing an *Error yields that *Error; anything else
// becomes an Unknown error wrapping err.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	return NewUnknown(err.Error()).WithCause(err)
}
