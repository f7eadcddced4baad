// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"context"
	"testing"
	"time"

	"github.com/gogama/apix/codec"
	"github.com/gogama/apix/fault"
	"github.com/gogama/apix/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type movie struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

func TestRequest(t *testing.T) {
	ctx := context.Background()
	ep := &request.Descriptor{URL: "https://api.test", Sample: []byte(`{"title":"Alien","year":1979}`)}
	ctrl := &Controller{Environment: Test}

	t.Run("Value", func(t *testing.T) {
		m, err := Request[movie](ctx, ctrl, ep)
		require.NoError(t, err)
		assert.Equal(t, movie{Title: "Alien", Year: 1979}, m)
	})
	t.Run("Pointer", func(t *testing.T) {
		m, err := Request[*movie](ctx, ctrl, ep)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, "Alien", m.Title)
	})
	t.Run("Empty", func(t *testing.T) {
		_, err := Request[codec.Empty](ctx, ctrl, &request.Descriptor{URL: "https://api.test"})
		assert.NoError(t, err)
	})
	t.Run("Raw", func(t *testing.T) {
		raw, err := Request[codec.Raw](ctx, ctrl, ep)
		require.NoError(t, err)
		assert.Equal(t, codec.Raw(`{"title":"Alien","year":1979}`), raw)
	})
	t.Run("Zero value on error", func(t *testing.T) {
		bad := &request.Descriptor{URL: "https://api.test", Sample: []byte(`{"title":"Alien","year":"x"}`)}
		m, err := Request[movie](ctx, ctrl, bad)
		require.Error(t, err)
		assert.Equal(t, fault.Decoding, fault.KindOf(err))
		assert.Equal(t, movie{}, m)
	})
	t.Run("nil doer", func(t *testing.T) {
		assert.PanicsWithValue(t, "apix: nil doer", func() {
			_, _ = Request[movie](ctx, nil, ep)
		})
	})
}

func TestRequestResult(t *testing.T) {
	ctx := context.Background()
	ep := &request.Descriptor{URL: "https://api.test"}

	t.Run("OK", func(t *testing.T) {
		x := &request.Execution{ID: "abc"}
		m := newMockDoer(t)
		m.On("Do", ctx, ep, mock.AnythingOfType("*apix.movie")).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*movie) = movie{Title: "Heat"}
			}).
			Return(x, nil).
			Once()
		r := RequestResult[movie](ctx, m, ep)
		assert.True(t, r.OK())
		assert.NoError(t, r.Err)
		assert.Equal(t, "Heat", r.Value.Title)
		assert.Same(t, x, r.Execution)
		m.AssertExpectations(t)
	})
	t.Run("Error", func(t *testing.T) {
		x := &request.Execution{ID: "def"}
		m := newMockDoer(t)
		m.On("Do", ctx, ep, mock.AnythingOfType("*apix.movie")).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*movie) = movie{Title: "partial"}
			}).
			Return(x, fault.NewConnection()).
			Once()
		r := RequestResult[movie](ctx, m, ep)
		assert.False(t, r.OK())
		assert.ErrorIs(t, r.Err, fault.NewConnection())
		assert.Equal(t, movie{}, r.Value)
		assert.Same(t, x, r.Execution)
		m.AssertExpectations(t)
	})
}

func TestGo(t *testing.T) {
	ctx := context.Background()
	ctrl := &Controller{Environment: Test}
	ep := &request.Descriptor{URL: "https://api.test", Sample: []byte(`{"title":"Ran"}`)}

	ch := make(chan Result[movie], 1)
	Go[movie](ctx, ctrl, ep, func(r Result[movie]) {
		ch <- r
	})
	select {
	case r := <-ch:
		require.NoError(t, r.Err)
		assert.Equal(t, "Ran", r.Value.Title)
		require.NotNil(t, r.Execution)
		assert.True(t, r.Execution.Mock)
	case <-time.After(5 * time.Second):
		t.Fatal("callback not called")
	}

	t.Run("nil callback", func(t *testing.T) {
		assert.PanicsWithValue(t, "apix: nil callback", func() {
			Go[movie](ctx, ctrl, ep, nil)
		})
	})
}
