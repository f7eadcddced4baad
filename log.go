// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"io"
	"net/http"
	"time"

	"github.com/gogama/apix/logger"
	"github.com/gogama/apix/request"
)

// logs returns the controller's dispatcher, starting it on first use.
// It returns nil if there is no Logger or the controller is closed.
func (c *Controller) logs() *logger.Dispatcher {
	c.once.Do(func() {
		if c.Logger == nil {
			return
		}
		f := c.LogFilter
		if f == nil {
			f = logger.DefaultFilter()
		}
		c.dispatcher = logger.NewDispatcher(c.Logger, f, c.LogBuffer)
	})
	return c.dispatcher
}

func (c *Controller) logAttempt(e *request.Execution) {
	c.dispatch(e, nil)
}

func (c *Controller) logFailure(e *request.Execution, err error) {
	c.dispatch(e, err)
}

func (c *Controller) dispatch(e *request.Execution, err error) {
	if c.Logger == nil || !e.Endpoint.ShouldLog() {
		return
	}
	d := c.logs()
	if d == nil {
		return
	}

	entry := logger.Entry{
		Endpoint:  request.Identity(e.Endpoint),
		RequestID: e.ID,
		Mock:      e.Mock,
		Attempt:   e.Attempt,
		Err:       err,
		Duration:  time.Since(e.Start),
	}
	if req := e.Request; req != nil {
		entry.Method = req.Method
		u := *req.URL
		entry.URL = &u
		entry.RequestHeader = req.Header.Clone()
		entry.RequestBody = requestBody(req)
	} else {
		entry.Method = e.Endpoint.Method().String()
	}
	if resp := e.Response; resp != nil {
		entry.StatusCode = resp.StatusCode
		entry.ResponseHeader = resp.Header.Clone()
	}
	if err == nil {
		entry.Body = e.Body
	}
	d.Dispatch(entry)
}

func requestBody(req *http.Request) []byte {
	if req.GetBody == nil {
		return nil
	}
	rc, err := req.GetBody()
	if err != nil {
		return nil
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}
	return b
}
