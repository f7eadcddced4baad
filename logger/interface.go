// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logger defines the structured logging interface used by the
// apix controller, a zerolog implementation of it, a filter which masks
// credentials, and the non-blocking Dispatcher which keeps logging off
// the request path.
package logger

import "time"

// Logger is the structured logging contract. Events are built with the
// field methods on LogEvent and sent with Msg or Msgf.
type Logger interface {
	Info() LogEvent
	Error() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent is a structured log event under construction.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Bool(key string, value bool) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
}
