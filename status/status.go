// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package status classifies HTTP status codes into response groups.
//
// Only the Success group counts as a successful response. Every other
// group, including Undefined for a missing or malformed code, is a
// failure.
package status

import "strconv"

// A Group is the class of an HTTP status code.
type Group int

const (
	// Undefined is the group of any code outside 100-599, including
	// zero, which stands for "no response".
	Undefined Group = iota
	// Informational is the 1xx group.
	Informational
	// Success is the 2xx group.
	Success
	// Redirection is the 3xx group.
	Redirection
	// ClientError is the 4xx group.
	ClientError
	// ServerError is the 5xx group.
	ServerError
)

var groupNames = []string{
	"undefined",
	"informational",
	"success",
	"redirection",
	"clientError",
	"serverError",
}

// String returns the name of the group.
func (g Group) String() string {
	if g < 0 || int(g) >= len(groupNames) {
		return "Group(" + strconv.Itoa(int(g)) + ")"
	}
	return groupNames[g]
}

// Classify returns the group of code.
func Classify(code int) Group {
	switch {
	case code >= 100 && code < 200:
		return Informational
	case code >= 200 && code < 300:
		return Success
	case code >= 300 && code < 400:
		return Redirection
	case code >= 400 && code < 500:
		return ClientError
	case code >= 500 && code < 600:
		return ServerError
	default:
		return Undefined
	}
}

// IsSuccess reports whether code is in the 2xx range.
func IsSuccess(code int) bool {
	return Classify(code) == Success
}

// Label returns the log label for code. Code zero means no response was
// received, as on the sample data path, and is labelled as a success.
// All other codes are labelled with their group name.
func Label(code int) string {
	if code == 0 {
		return Success.String()
	}
	return Classify(code).String()
}
