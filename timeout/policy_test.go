// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"context"
	"errors"
	"math"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/apix/fault"
	"github.com/gogama/apix/request"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	a := DefaultPolicy.Timeout(&request.Execution{})
	assert.Equal(t, time.Minute, a)
	b := DefaultPolicy.Timeout(&request.Execution{AttemptTimeouts: 3, Err: syscall.ETIMEDOUT, Body: []byte("foo")})
	assert.Equal(t, time.Minute, b)
}

func TestInfinite(t *testing.T) {
	assert.Equal(t, time.Duration(math.MaxInt64), None)
	a := Infinite.Timeout(&request.Execution{})
	assert.Equal(t, None, a)
	b := Infinite.Timeout(&request.Execution{AttemptTimeouts: 10, Err: syscall.ETIMEDOUT})
	assert.Equal(t, None, b)
}

func TestFixed(t *testing.T) {
	p := Fixed(33 * time.Hour)
	a := p.Timeout(&request.Execution{})
	assert.Equal(t, 33*time.Hour, a)
	b := p.Timeout(&request.Execution{AttemptTimeouts: 1, Err: syscall.ETIMEDOUT, Attempt: 1})
	assert.Equal(t, 33*time.Hour, b)
	c := p.Timeout(&request.Execution{AttemptTimeouts: 2, Err: syscall.ETIMEDOUT, Attempt: 2})
	assert.Equal(t, 33*time.Hour, c)

	t.Run("Non-positive", func(t *testing.T) {
		assert.Equal(t, None, Fixed(0).Timeout(&request.Execution{}))
		assert.Equal(t, None, Fixed(-time.Second).Timeout(&request.Execution{}))
	})
}

func TestAdaptive(t *testing.T) {
	p := Adaptive(5*time.Millisecond, 10*time.Millisecond, 100*time.Millisecond)
	x := &request.Execution{}
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Attempt = 0
	x.AttemptTimeouts = 1
	x.Err = fault.NewConnection().WithCause(context.DeadlineExceeded)
	assert.Equal(t, 10*time.Millisecond, p.Timeout(x))
	x.Attempt = 1
	x.Err = errors.New("just a routine problem")
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Attempt = 2
	x.AttemptTimeouts = 2
	assert.Equal(t, 5*time.Millisecond, p.Timeout(x))
	x.Err = syscall.ETIMEDOUT
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	x.Attempt = 3
	x.AttemptTimeouts = 3
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))
	x.Attempt = 4
	x.AttemptTimeouts = 3
	assert.Equal(t, 100*time.Millisecond, p.Timeout(x))

	t.Run("No after", func(t *testing.T) {
		q := Adaptive(time.Second)
		assert.Equal(t, time.Second, q.Timeout(&request.Execution{AttemptTimeouts: 1, Err: syscall.ETIMEDOUT}))
	})
	t.Run("Zero after", func(t *testing.T) {
		q := Adaptive(time.Second, 0)
		assert.Equal(t, None, q.Timeout(&request.Execution{AttemptTimeouts: 1, Err: syscall.ETIMEDOUT}))
	})
}
