// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"io"
	"strconv"
	"syscall"
)

// A Category is the transience category of an error as reported by
// Categorize.
//
// Not means another attempt is unlikely to fare better. Every other
// category means the failure may clear up by itself.
type Category int

const (
	// Not is the category of nil and of every non-transient error.
	Not Category = iota
	// Timeout is a client-side timeout: the error, or an error it
	// wraps, has a Timeout method reporting true. This includes
	// context.DeadlineExceeded.
	Timeout
	// ConnRefused means the remote host refused the connection
	// (ECONNREFUSED). A service which is restarting refuses connections
	// until it is listening again.
	ConnRefused
	// ConnReset means the remote host reset an established connection
	// (ECONNRESET).
	ConnReset
	// Closed means the connection closed before a complete response was
	// read (io.EOF or io.ErrUnexpectedEOF), typically because a keep-alive
	// connection went stale.
	Closed
)

var categoryNames = []string{
	"not",
	"timeout",
	"connRefused",
	"connReset",
	"closed",
}

// String returns a short name for c, suitable as a metric label.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of err, looking through
// wrapped errors. Timeout wins over every other category. Temporary
// methods are never consulted.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var t timeouter
	if errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return Closed
	}

	return Not
}

type timeouter interface {
	Timeout() bool
}
