// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package apix executes typed requests against declaratively described API
endpoints, with retries, authentication gating, request logging and
sample data environments, within a simple and familiar interface.

Describe an endpoint, create a Controller, and request a value.

	ep := &request.Descriptor{
		URL:     "https://api.example.com",
		Route:   "/movies",
		Payload: request.Query(map[string]any{"page": 2}),
		Retries: 2,
	}
	ctrl := &apix.Controller{}
	movies, err := apix.Request[[]Movie](ctx, ctrl, ep)

Every error the controller returns is a *fault.Error from a small closed
set of kinds, unless the controller is configured to decode application
errors from server error bodies:

	ctrl := &apix.Controller{
		ErrorBody: func() error { return &APIError{} },
	}

For control over how the controller sends HTTP requests and receives
HTTP responses, use a custom HTTPDoer. For example, use a GoLang
standard HTTP client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	ctrl := &apix.Controller{
		HTTPDoer: doer,
	}

Each endpoint carries its own retry count. For control over when
failed attempts are retried and how long the controller waits first,
create a custom retry policy using components from package retry:

	retryWaiter := retry.NewExpWaiter(250*time.Millisecond, 5*time.Second, time.Now())
	retryPolicy := retry.NewPolicy(retry.DefaultDecider, retryWaiter)
	ctrl := &apix.Controller{
		RetryPolicy: retryPolicy,
	}

For control over the controller's individual attempt timeouts, set a
custom timeout policy using package timeout:

	ctrl := &apix.Controller{
		TimeoutPolicy: timeout.Fixed(10*time.Second),
	}

To gate requests on the user's login state, add credentials, or observe
failures, implement an Interceptor. Embed NopInterceptor to implement
only some of its methods.

To serve sample data instead of making network calls, set the
Environment to Test or Preview. An endpoint can also opt in to sample
data in the Live environment.

To hook into the fine-grained details of the controller's execution
logic, install a handler into the appropriate handler chain:

	handlers := &apix.HandlerGroup{}
	handlers.PushBack(apix.BeforeAttempt, apix.HandlerFunc(
		func(_ apix.Event, e *request.Execution) {
			fmt.Printf("Attempt %d to %s\n", e.Attempt, e.Request.URL)
		}),
	)
	ctrl := &apix.Controller{
		Handlers: handlers,
	}

Package observability provides handlers which trace executions and
record metrics with OpenTelemetry.

A Controller can also be built from configuration loaded by package
config, using NewFromConfig.
*/
package apix
