// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logger

import (
	"bytes"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingWriter blocks every write until release is closed.
type blockingWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() { close(w.entered) })
	<-w.release
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// syncBuffer is a goroutine safe bytes.Buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() *bytes.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.NewBuffer(append([]byte(nil), b.buf.Bytes()...))
}

func TestDispatcher(t *testing.T) {
	t.Run("Order", func(t *testing.T) {
		var buf syncBuffer
		d := NewDispatcher(NewWithWriter(&buf, "info", false), DefaultFilter(), 100)
		for i := 0; i < 50; i++ {
			require.True(t, d.Dispatch(Entry{Endpoint: strconv.Itoa(i), Method: "GET"}))
		}
		require.NoError(t, d.Close())
		lines := decodeLines(t, buf.Bytes())
		require.Len(t, lines, 50)
		for i, line := range lines {
			assert.Equal(t, strconv.Itoa(i), line["endpoint"])
		}
		assert.Equal(t, uint64(0), d.Dropped())
	})
	t.Run("Full", func(t *testing.T) {
		w := &blockingWriter{entered: make(chan struct{}), release: make(chan struct{})}
		d := NewDispatcher(NewWithWriter(w, "info", false), nil, 1)
		require.True(t, d.Dispatch(Entry{Endpoint: "first"}))
		<-w.entered
		require.True(t, d.Dispatch(Entry{Endpoint: "second"}))
		start := time.Now()
		assert.False(t, d.Dispatch(Entry{Endpoint: "third"}))
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, uint64(1), d.Dropped())
		close(w.release)
		require.NoError(t, d.Close())
		lines := decodeLines(t, &w.buf)
		require.Len(t, lines, 2)
		assert.Equal(t, "first", lines[0]["endpoint"])
		assert.Equal(t, "second", lines[1]["endpoint"])
	})
	t.Run("Closed", func(t *testing.T) {
		d := NewDispatcher(Nop(), nil, 0)
		require.NoError(t, d.Close())
		require.NoError(t, d.Close())
		assert.False(t, d.Dispatch(Entry{}))
		assert.Equal(t, uint64(1), d.Dropped())
	})
	t.Run("Concurrent", func(t *testing.T) {
		var buf syncBuffer
		d := NewDispatcher(NewWithWriter(&buf, "info", false), nil, 1000)
		var wg sync.WaitGroup
		for g := 0; g < 10; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					d.Dispatch(Entry{Endpoint: "x"})
				}
			}()
		}
		wg.Wait()
		require.NoError(t, d.Close())
		lines := decodeLines(t, buf.Bytes())
		assert.Len(t, lines, 200)
	})
	t.Run("Nil Logger", func(t *testing.T) {
		assert.PanicsWithValue(t, "apix/logger: nil logger", func() {
			NewDispatcher(nil, nil, 1)
		})
	})
}
