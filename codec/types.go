// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

// Empty is a decode target for responses whose body is irrelevant or
// absent, such as 204 No Content. Decoding into an *Empty always
// succeeds.
type Empty struct{}

// Raw is a byte slice which passes through the codec untouched. As an
// encode source it is written verbatim; as a decode target it receives
// a copy of the response bytes.
type Raw []byte
