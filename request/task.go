// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A TaskKind identifies the shape of a Task.
type TaskKind int

const (
	// TaskEmpty has neither body nor query parameters.
	TaskEmpty TaskKind = iota
	// TaskQuery has query parameters only.
	TaskQuery
	// TaskBody has a body only.
	TaskBody
	// TaskBodyAndQuery has both a body and query parameters.
	TaskBodyAndQuery
)

var taskKindNames = []string{
	"empty",
	"query",
	"body",
	"bodyAndQuery",
}

// String returns the name of the task kind.
func (k TaskKind) String() string {
	return taskKindNames[k]
}

// A Task is the body and query parameter shape of a request. The zero
// value is the empty task.
type Task struct {
	kind   TaskKind
	body   any
	params map[string]any
}

// Query returns a task which appends params to the URL query.
func Query(params map[string]any) Task {
	return Task{kind: TaskQuery, params: params}
}

// Body returns a task which sends v, encoded with the endpoint's
// encoding strategies, as the request body.
func Body(v any) Task {
	return Task{kind: TaskBody, body: v}
}

// BodyAndQuery returns a task which both sends v as the body and
// appends params to the URL query.
func BodyAndQuery(v any, params map[string]any) Task {
	return Task{kind: TaskBodyAndQuery, body: v, params: params}
}

// Kind returns the shape of the task.
func (t Task) Kind() TaskKind {
	return t.kind
}

// Value returns the body value and true if the task has a body, or
// nil and false otherwise.
func (t Task) Value() (any, bool) {
	if t.kind == TaskBody || t.kind == TaskBodyAndQuery {
		return t.body, true
	}
	return nil, false
}

// Params returns the query parameters of the task. It returns nil for
// tasks with no query parameters.
func (t Task) Params() map[string]any {
	if t.kind == TaskQuery || t.kind == TaskBodyAndQuery {
		return t.params
	}
	return nil
}
