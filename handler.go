// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"github.com/gogama/apix/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a Controller.
//
// A HandlerGroup must not be modified while a Controller using it is
// executing requests.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the chain for evt.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("apix: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// Len returns the number of handlers in the chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	i := int(evt)
	if i < 0 || i >= len(g.handlers) {
		return 0
	}
	return len(g.handlers[i])
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e)
	}
}

func run(chain []Handler, evt Event, e *request.Execution) {
	for _, h := range chain {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during an execution.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
