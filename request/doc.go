// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Endpoint (describes one API
call) and Execution (describes the state of one request made to an
Endpoint), and the wire request builder, Build.

The first core type is Endpoint, an interface describing where a call
goes and how it is shaped: base URL, path, method, Task (body and
query parameters), headers, the codec strategies for encoding the body
and decoding the response, the retry budget, and the sample data used
instead of the network outside the live environment.

Endpoints are usually small value types which embed Defaults:

	type popularMovies struct {
		request.Defaults
		page int
	}

	func (popularMovies) BaseURL() string { return "https://api.themoviedb.org/3" }
	func (popularMovies) Path() string    { return "/movie/popular" }
	func (e popularMovies) Task() request.Task {
		return request.Query(map[string]any{"page": e.page})
	}

For one-off calls, and in tests, a Descriptor describes an endpoint
with plain field values:

	ep := &request.Descriptor{
		URL:     "https://api.example.com",
		Route:   "/lists",
		Verb:    request.Post,
		Payload: request.Body(newList),
	}

Build turns an Endpoint into an *http.Request. It is pure apart from
consuming a reader body, and fails only with encoding errors.

The second core type is Execution, which represents the state of a
request as it progresses through attempts and retries. Execution is
both the output of the controller's Do method, and the input type for
callbacks invoked during the request: timeout policies, retry policies,
and event handlers. You will typically not allocate Execution instances
yourself, but will instead work with the ones handed out by the
controller.
*/
package request
