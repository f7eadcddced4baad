// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

// An Event identifies the point in an execution at which a Handler
// runs. Install handlers in a Controller to extend it with custom
// functionality such as tracing or metrics.
type Event int

const (
	// BeforeExecutionStart occurs before the execution starts.
	//
	// When the Controller fires BeforeExecutionStart, only the
	// execution's ID and Endpoint are set.
	BeforeExecutionStart Event = iota
	// BeforeAttempt occurs before each live attempt is sent.
	//
	// When the Controller fires BeforeAttempt, the execution's Request
	// field holds the wire request after interception. Handlers may
	// modify it, for example to sign it, or replace it with a request
	// carrying a derived context. Mock executions never fire
	// BeforeAttempt.
	BeforeAttempt
	// AfterAttempt occurs after each live attempt concludes, whether
	// it received a response or failed.
	//
	// When the Controller fires AfterAttempt, either Response or Err is
	// set, and Body holds the intercepted body if one was read. The
	// event fires before the retry policy is consulted.
	AfterAttempt
	// BeforeRetryWait occurs after the retry policy decided to retry,
	// before the controller sleeps.
	//
	// When the Controller fires BeforeRetryWait, the execution still
	// describes the failed attempt.
	BeforeRetryWait
	// AfterExecutionEnd occurs after the execution ends, successfully
	// or not. It fires for mock executions too.
	//
	// When the Controller fires AfterExecutionEnd, End is set and Err
	// holds the error the execution ended with, if any.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"AfterAttempt",
	"BeforeRetryWait",
	"AfterExecutionEnd",
}

// Events returns all events, in the order in which they occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		AfterAttempt,
		BeforeRetryWait,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
