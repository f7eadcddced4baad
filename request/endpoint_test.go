// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"testing"

	"github.com/gogama/apix/codec"
	"github.com/stretchr/testify/assert"
)

type movieEndpoint struct {
	Defaults
	id int
}

func (movieEndpoint) BaseURL() string { return "https://api.example.test/3" }
func (movieEndpoint) RetryCount() int { return 2 }

type namedEndpoint struct {
	movieEndpoint
}

func (namedEndpoint) Name() string { return "popularMovies" }

type stringerEndpoint struct {
	movieEndpoint
}

func (stringerEndpoint) String() string { return "stringer" }

func TestDefaults(t *testing.T) {
	var ep Endpoint = movieEndpoint{}
	assert.Equal(t, "https://api.example.test/3", ep.BaseURL())
	assert.Equal(t, "", ep.Path())
	assert.Equal(t, Get, ep.Method())
	assert.Equal(t, TaskEmpty, ep.Task().Kind())
	assert.Nil(t, ep.Headers())
	assert.True(t, ep.KeyEncoding().IsDefault())
	assert.True(t, ep.DateEncoding().IsDefault())
	assert.True(t, ep.KeyDecoding().IsDefault())
	assert.True(t, ep.DateDecoding().IsDefault())
	assert.Equal(t, 2, ep.RetryCount())
	assert.Nil(t, ep.SampleData())
	assert.False(t, ep.UsesSampleData())
	assert.True(t, ep.ShouldLog())
}

func TestDescriptor(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		d := &Descriptor{URL: "https://x.test"}
		assert.Equal(t, Get, d.Method())
		assert.Equal(t, TaskEmpty, d.Task().Kind())
		assert.True(t, d.ShouldLog())
		assert.False(t, d.UsesSampleData())
		assert.Equal(t, 0, d.RetryCount())
		assert.Equal(t, "GET ", d.Name())
	})
	t.Run("populated", func(t *testing.T) {
		d := &Descriptor{
			Label:        "createList",
			URL:          "https://x.test",
			Route:        "/list",
			Verb:         Post,
			Payload:      Body(map[string]string{"name": "n"}),
			Header:       map[string]string{"X-A": "b"},
			Encoding:     Strategies{Keys: codec.SnakeCase, Dates: codec.ISO8601},
			Decoding:     Strategies{Keys: codec.SnakeCase, Dates: codec.UnixSeconds},
			Retries:      3,
			Sample:       []byte(`{}`),
			AlwaysSample: true,
			Quiet:        true,
		}
		assert.Equal(t, "createList", d.Name())
		assert.Equal(t, "https://x.test", d.BaseURL())
		assert.Equal(t, "/list", d.Path())
		assert.Equal(t, Post, d.Method())
		assert.Equal(t, TaskBody, d.Task().Kind())
		assert.Equal(t, "b", d.Headers()["X-A"])
		assert.Equal(t, codec.SnakeCase, d.KeyEncoding())
		assert.Equal(t, codec.ISO8601, d.DateEncoding())
		assert.Equal(t, codec.SnakeCase, d.KeyDecoding())
		assert.Equal(t, codec.UnixSeconds, d.DateDecoding())
		assert.Equal(t, 3, d.RetryCount())
		assert.Equal(t, []byte(`{}`), d.SampleData())
		assert.True(t, d.UsesSampleData())
		assert.False(t, d.ShouldLog())
	})
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, "<nil>", Identity(nil))
	assert.Equal(t, "movieEndpoint", Identity(movieEndpoint{}))
	assert.Equal(t, "movieEndpoint", Identity(&movieEndpoint{}))
	assert.Equal(t, "popularMovies", Identity(namedEndpoint{}))
	assert.Equal(t, "stringer", Identity(stringerEndpoint{}))
	assert.Equal(t, "DELETE /x", Identity(&Descriptor{Verb: Delete, Route: "/x"}))
}

func TestRetries(t *testing.T) {
	assert.Equal(t, 0, Retries(&Descriptor{}))
	assert.Equal(t, 0, Retries(&Descriptor{Retries: -4}))
	assert.Equal(t, 5, Retries(&Descriptor{Retries: 5}))
}

func TestMethods(t *testing.T) {
	ms := Methods()
	assert.Len(t, ms, 9)
	for _, m := range ms {
		assert.Equal(t, string(m), m.String())
	}
}

func TestTask(t *testing.T) {
	params := map[string]any{"page": 1}
	testCases := []struct {
		name    string
		task    Task
		kind    TaskKind
		body    any
		hasBody bool
		params  map[string]any
	}{
		{"zero", Task{}, TaskEmpty, nil, false, nil},
		{"query", Query(params), TaskQuery, nil, false, params},
		{"body", Body("b"), TaskBody, "b", true, nil},
		{"body and query", BodyAndQuery("b", params), TaskBodyAndQuery, "b", true, params},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.kind, testCase.task.Kind())
			body, ok := testCase.task.Value()
			assert.Equal(t, testCase.hasBody, ok)
			assert.Equal(t, testCase.body, body)
			assert.Equal(t, testCase.params, testCase.task.Params())
		})
	}
	assert.Equal(t, "empty", TaskEmpty.String())
	assert.Equal(t, "query", TaskQuery.String())
	assert.Equal(t, "body", TaskBody.String())
	assert.Equal(t, "bodyAndQuery", TaskBodyAndQuery.String())
}
