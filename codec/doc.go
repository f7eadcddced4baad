// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package codec converts between typed Go values and JSON bytes under a
configurable key convention and date convention.

Both conventions are fixed for a whole payload. An endpoint which says
its keys are snake_case and its dates are Unix seconds gets exactly that
for every object key and every time.Time in the body, however deeply
nested:

	b, err := codec.Encode(body, codec.UnixSeconds, codec.SnakeCase)
	...
	var out Profile
	err = codec.Decode(b, &out, codec.UnixSeconds, codec.SnakeCase)

The zero KeyStrategy and zero DateStrategy reproduce encoding/json
exactly, and when both are zero Encode and Decode delegate straight to
encoding/json.

All errors returned by Encode are *fault.Error values of kind Encoding,
and all errors returned by Decode are *fault.Error values of kind
Decoding. The diagnostic detail is the underlying parser message; the
parser's error value itself is not wrapped.
*/
package codec
