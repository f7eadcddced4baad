// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logger

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the default Dispatcher capacity.
const DefaultBuffer = 256

// A Dispatcher writes entries to a Logger from a single background
// goroutine. Dispatch never blocks: when the buffer is full the entry
// is dropped and counted.
//
// Entries from one goroutine are written in the order dispatched.
// Entries from different goroutines are interleaved in arrival order.
type Dispatcher struct {
	logger  Logger
	filter  *Filter
	ch      chan Entry
	done    chan struct{}
	dropped atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts a dispatcher writing to l with filter f and
// room for capacity pending entries. A capacity below one means
// DefaultBuffer.
func NewDispatcher(l Logger, f *Filter, capacity int) *Dispatcher {
	if l == nil {
		panic("apix/logger: nil logger")
	}
	if capacity < 1 {
		capacity = DefaultBuffer
	}
	d := &Dispatcher{
		logger: l,
		filter: f,
		ch:     make(chan Entry, capacity),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.ch {
		e.Write(d.logger, d.filter)
	}
}

// Dispatch queues e for writing. It returns false if e was dropped
// because the buffer is full or the dispatcher is closed.
func (d *Dispatcher) Dispatch(e Entry) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.dropped.Add(1)
		return false
	}
	select {
	case d.ch <- e:
		return true
	default:
		d.dropped.Add(1)
		return false
	}
}

// Dropped returns the number of entries dropped so far.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close stops accepting entries, waits for queued entries to be
// written, and stops the background goroutine. Close is idempotent.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.ch)
	}
	d.mu.Unlock()
	<-d.done
	return nil
}
