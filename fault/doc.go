// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fault defines the closed error taxonomy surfaced by the apix
request controller.

Every failed call resolves to exactly one Kind:

	Connection      the request could not reach the server
	Authentication  the caller is not, or could not be, authenticated
	Decoding        response bytes could not be decoded (with detail)
	Encoding        the request could not be built (with detail)
	Unknown         anything else (with optional detail)

Errors are represented by *Error. Decoding and Encoding errors raised
by the codec carry the parser's message as their detail and have no
Cause, so the parser's own error types never reach callers. Errors
raised by caller code, such as a failing response mapper, keep it as
the Cause.

Use KindOf or As to classify an arbitrary error returned from the
controller:

	if fault.KindOf(err) == fault.Authentication {
		...
	}
*/
package fault
