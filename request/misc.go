// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"io"

	"github.com/gogama/apix/codec"
	"github.com/gogama/apix/fault"
)

// BodyBytes converts a task body value to the bytes sent on the wire.
//
// The conversion logic is:
//
// • If v is a codec.Raw, v itself is returned unchanged.
//
// • If v is an io.Reader or io.ReadCloser, the result of reading the
// whole contents of the reader (and closing it if it implements
// Closer) is returned. Reading a reader consumes it, so a reader body
// is only suitable for endpoints which are never retried.
//
// • Otherwise v is encoded as JSON using codec.Encode with the given
// date and key strategies.
//
// Any error is a *fault.Error of kind Encoding.
func BodyBytes(v any, dates codec.DateStrategy, keys codec.KeyStrategy) ([]byte, error) {
	switch x := v.(type) {
	case codec.Raw:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, fault.NewEncoding("read body: " + err.Error()).WithCause(err)
		}
		err = x.Close()
		if err != nil {
			return nil, fault.NewEncoding("close body: " + err.Error()).WithCause(err)
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x), dates, keys)
	default:
		return codec.Encode(v, dates, keys)
	}
}
