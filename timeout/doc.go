// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for the timeout of each attempt
// against an endpoint, including retries. The controller asks the
// policy before every attempt, while the execution still describes the
// previous attempt, so a policy can react to a timeout by granting the
// next attempt more time.
package timeout
