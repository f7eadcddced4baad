// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	zlog   zerolog.Logger
	filter *Filter
}

var _ Logger = (*ZeroLogger)(nil)

// New creates a ZeroLogger writing to standard output at the given
// level. An unrecognized level means info. If pretty is true, output is
// formatted for humans instead of as JSON lines.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithWriter(os.Stdout, level, pretty)
}

// NewWithWriter is like New but writes to w.
func NewWithWriter(w io.Writer, level string, pretty bool) *ZeroLogger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Logger()
	zLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		zLevel = zerolog.InfoLevel
	}
	return &ZeroLogger{zlog: l.Level(zLevel), filter: DefaultFilter()}
}

// Nop returns a logger which discards everything.
func Nop() *ZeroLogger {
	return &ZeroLogger{zlog: zerolog.Nop(), filter: DefaultFilter()}
}

// Info starts an info level event.
func (l *ZeroLogger) Info() LogEvent {
	return &eventAdapter{event: l.zlog.Info(), filter: l.filter}
}

// Error starts an error level event.
func (l *ZeroLogger) Error() LogEvent {
	return &eventAdapter{event: l.zlog.Error(), filter: l.filter}
}

// Debug starts a debug level event.
func (l *ZeroLogger) Debug() LogEvent {
	return &eventAdapter{event: l.zlog.Debug(), filter: l.filter}
}

// Warn starts a warn level event.
func (l *ZeroLogger) Warn() LogEvent {
	return &eventAdapter{event: l.zlog.Warn(), filter: l.filter}
}

// WithFields returns a logger which adds fields to every event. Values
// under sensitive keys are masked.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	masked := make(map[string]any, len(fields))
	for k, v := range fields {
		masked[k] = l.filter.Value(k, v)
	}
	return &ZeroLogger{zlog: l.zlog.With().Fields(masked).Logger(), filter: l.filter}
}

type eventAdapter struct {
	event  *zerolog.Event
	filter *Filter
}

func (a *eventAdapter) Msg(msg string) {
	a.event.Msg(msg)
}

func (a *eventAdapter) Msgf(format string, args ...any) {
	a.event.Msgf(format, args...)
}

func (a *eventAdapter) Err(err error) LogEvent {
	return &eventAdapter{event: a.event.Err(err), filter: a.filter}
}

func (a *eventAdapter) Str(key, value string) LogEvent {
	return &eventAdapter{event: a.event.Str(key, a.filter.String(key, value)), filter: a.filter}
}

func (a *eventAdapter) Int(key string, value int) LogEvent {
	return &eventAdapter{event: a.event.Int(key, value), filter: a.filter}
}

func (a *eventAdapter) Int64(key string, value int64) LogEvent {
	return &eventAdapter{event: a.event.Int64(key, value), filter: a.filter}
}

func (a *eventAdapter) Bool(key string, value bool) LogEvent {
	return &eventAdapter{event: a.event.Bool(key, value), filter: a.filter}
}

func (a *eventAdapter) Dur(key string, d time.Duration) LogEvent {
	return &eventAdapter{event: a.event.Dur(key, d), filter: a.filter}
}

func (a *eventAdapter) Interface(key string, i any) LogEvent {
	return &eventAdapter{event: a.event.Interface(key, a.filter.Value(key, i)), filter: a.filter}
}
