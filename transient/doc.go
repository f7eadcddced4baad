// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient sorts transport errors into categories which say
// whether another attempt has any prospect of success. The controller
// uses it to flag attempt timeouts, retry deciders use it to decide,
// and the observability handler uses it to label failed attempts.
package transient
