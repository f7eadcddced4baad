// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gogama/apix/codec"
	"github.com/gogama/apix/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBodyBytes(t *testing.T) {
	var b []byte
	var err error
	t.Run("happy path", func(t *testing.T) {
		b, err = BodyBytes(nil, codec.DefaultDates, codec.DefaultKeys)
		assert.Equal(t, []byte("null"), b)
		assert.NoError(t, err)
		b, err = BodyBytes("foo", codec.DefaultDates, codec.DefaultKeys)
		assert.Equal(t, []byte(`"foo"`), b)
		assert.NoError(t, err)
		b, err = BodyBytes(codec.Raw("bar"), codec.DefaultDates, codec.SnakeCase)
		assert.Equal(t, []byte("bar"), b)
		assert.NoError(t, err)
		b, err = BodyBytes(strings.NewReader("baz"), codec.DefaultDates, codec.DefaultKeys)
		assert.Equal(t, []byte("baz"), b)
		assert.NoError(t, err)
		b, err = BodyBytes(io.NopCloser(bytes.NewReader([]byte("qux"))), codec.DefaultDates, codec.DefaultKeys)
		assert.Equal(t, []byte("qux"), b)
		assert.NoError(t, err)
		b, err = BodyBytes(map[string]int{"pageSize": 10}, codec.DefaultDates, codec.SnakeCase)
		assert.Equal(t, []byte(`{"page_size":10}`), b)
		assert.NoError(t, err)
	})
	t.Run("encode error", func(t *testing.T) {
		b, err = BodyBytes(func() {}, codec.DefaultDates, codec.DefaultKeys)
		assert.Nil(t, b)
		assert.Equal(t, fault.Encoding, fault.KindOf(err))
	})
	t.Run("reader errors", func(t *testing.T) {
		expectedErr := errors.New("ham")
		t.Run("Read", func(t *testing.T) {
			m := &mockReadCloser{}
			m.Test(t)
			m.On("Read", mock.Anything).Return(10, expectedErr).Once()
			b, err = BodyBytes(m, codec.DefaultDates, codec.DefaultKeys)
			assert.Nil(t, b)
			assert.Equal(t, fault.Encoding, fault.KindOf(err))
			assert.ErrorIs(t, err, expectedErr)
			assert.EqualError(t, err, "encodingError: read body: ham")
			m.AssertExpectations(t)
		})
		t.Run("Close", func(t *testing.T) {
			m := &mockReadCloser{}
			m.Test(t)
			m.On("Read", mock.Anything).Return(0, io.EOF).Once()
			m.On("Close").Return(expectedErr).Once()
			b, err = BodyBytes(m, codec.DefaultDates, codec.DefaultKeys)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, expectedErr)
			assert.EqualError(t, err, "encodingError: close body: ham")
			m.AssertExpectations(t)
		})
	})
}

type mockReadCloser struct {
	mock.Mock
}

func (m *mockReadCloser) Read(p []byte) (n int, err error) {
	args := m.Called(p)
	n = args.Int(0)
	err = args.Error(1)
	return
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
