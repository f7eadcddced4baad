// Copyright 2026 The apix Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apix

import (
	"fmt"
	"strconv"
)

// An Environment selects how a Controller serves requests. It is fixed
// for the lifetime of the controller.
type Environment int

const (
	// Live performs network I/O. It is the zero value.
	Live Environment = iota
	// Test serves every request from the endpoint's sample data
	// without network I/O.
	Test
	// Preview is like Test but delays each response to emulate
	// latency.
	Preview
)

var environmentNames = []string{"live", "test", "preview"}

// String returns the lowercase name of env.
func (env Environment) String() string {
	if env < 0 || int(env) >= len(environmentNames) {
		return "Environment(" + strconv.Itoa(int(env)) + ")"
	}
	return environmentNames[env]
}

// ParseEnvironment returns the Environment named s.
func ParseEnvironment(s string) (Environment, error) {
	for i, name := range environmentNames {
		if name == s {
			return Environment(i), nil
		}
	}
	return Live, fmt.Errorf("apix: unknown environment %q", s)
}
