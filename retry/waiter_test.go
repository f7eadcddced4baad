// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/gogama/apix/request"
	"github.com/stretchr/testify/assert"
)

func TestDefaultWaiter(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, time.Duration(i+1)*DefaultBackoff, DefaultWaiter.Wait(&request.Execution{Attempt: i}))
	}
}

func TestNewLinearWaiter(t *testing.T) {
	testCases := []struct {
		name    string
		unit    time.Duration
		attempt int
		want    time.Duration
	}{
		{"first retry", 100 * time.Millisecond, 0, 100 * time.Millisecond},
		{"second retry", 100 * time.Millisecond, 1, 200 * time.Millisecond},
		{"tenth retry", time.Second, 9, 10 * time.Second},
		{"zero unit", 0, 5, 0},
		{"negative unit", -time.Second, 2, 0},
		{"negative attempt", time.Second, -3, time.Second},
		{"overflow", time.Hour, math.MaxInt64 - 1, time.Duration(math.MaxInt64)},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			w := NewLinearWaiter(testCase.unit)
			assert.Equal(t, testCase.want, w.Wait(&request.Execution{Attempt: testCase.attempt}))
		})
	}
}

func TestNewFixedWaiter(t *testing.T) {
	w := NewFixedWaiter(3 * time.Second)
	assert.Equal(t, 3*time.Second, w.Wait(&request.Execution{}))
	assert.Equal(t, 3*time.Second, w.Wait(&request.Execution{Attempt: 7}))
}

func TestNewExpWaiter(t *testing.T) {
	base, max := 1*time.Millisecond, 1*time.Hour
	t.Run("invalid base", func(t *testing.T) {
		assert.PanicsWithValue(t, "apix/retry: base must be positive", func() {
			NewExpWaiter(time.Duration(-1), max, nil)
		})
		assert.Panics(t, func() {
			NewExpWaiter(time.Duration(0), max, nil)
		}, "zero base")
	})
	t.Run("invalid max", func(t *testing.T) {
		assert.PanicsWithValue(t, "apix/retry: max must be at least base", func() {
			NewExpWaiter(time.Duration(2), time.Duration(1), nil)
		})
	})
	t.Run("invalid jitter", func(t *testing.T) {
		assert.PanicsWithValue(t, "apix/retry: invalid jitter type", func() {
			NewExpWaiter(base, max, float64(1))
		})
		var nilRand *rand.Rand
		assert.PanicsWithValue(t, "apix/retry: jitter may not be a typed nil", func() {
			NewExpWaiter(base, max, nilRand)
		})
	})
	t.Run("no jitter", func(t *testing.T) {
		j := newJitterExpWaiter(t, base, max, nil, "explicit nil")
		assert.Nil(t, j.rand, "explicit nil")
		var s rand.Source
		j = newJitterExpWaiter(t, base, max, s, "nil rand.Source")
		assert.Nil(t, j.rand, "nil rand.Source")
		for i := 0; i < 10; i++ {
			ceil := 1 << i
			assert.Equal(t, time.Duration(ceil)*time.Millisecond, j.Wait(&request.Execution{Attempt: i}))
		}
		assert.Equal(t, max, j.Wait(&request.Execution{Attempt: 25}))
		assert.Equal(t, max, j.Wait(&request.Execution{Attempt: 63}))
		assert.Equal(t, max, j.Wait(&request.Execution{Attempt: 1000}))
		assert.Equal(t, max, j.Wait(&request.Execution{Attempt: math.MaxInt64}))
	})
	t.Run("with jitter", func(t *testing.T) {
		jitters := []struct {
			name  string
			value any
		}{
			{"zero time.Time", time.Time{}},
			{"time.Now()", time.Now()},
			{"int", 1},
			{"int64", int64(1)},
			{"rand.Source", rand.NewSource(0)},
			{"*rand.Rand", rand.New(rand.NewSource(0))},
		}
		for i, jitter := range jitters {
			t.Run(fmt.Sprintf("jitters[%d]=%s", i, jitter.name), func(t *testing.T) {
				w := NewExpWaiter(base, max, jitter.value)
				for j := 0; j < 100; j++ {
					d := w.Wait(&request.Execution{Attempt: j})
					assert.GreaterOrEqual(t, d, time.Duration(0))
					assert.LessOrEqual(t, d, max)
				}
			})
		}
	})
	t.Run("concurrent rand.Source usage", func(t *testing.T) {
		w := NewExpWaiter(base, max, 0)
		var wg sync.WaitGroup
		var mu sync.Mutex
		total := time.Duration(0)
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 22; j++ {
					d := w.Wait(&request.Execution{Attempt: j})
					assert.GreaterOrEqual(t, d, time.Duration(0))
					assert.LessOrEqual(t, d, (1<<j)*time.Millisecond)
					mu.Lock()
					total += d
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Greater(t, total, time.Duration(0))
	})
}

func newJitterExpWaiter(t *testing.T, base, max time.Duration, jitter any, message string) *jitterExpWaiter {
	j := NewExpWaiter(base, max, jitter)
	assert.IsType(t, &jitterExpWaiter{}, j, message)
	return j.(*jitterExpWaiter)
}
