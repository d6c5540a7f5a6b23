// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
)

// ErrEngineNotFound is returned when the rendering engine cannot be found
// in the candidate paths or the override variable. It is a configuration
// error and is always reported before any process is spawned.
var ErrEngineNotFound = errors.New("plantuml.jar not found")

// ValidationError reports a request that cannot be converted.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ProcessError reports an engine process that could not be launched. It is
// distinct from an engine that ran and exited non-zero, which is a normal
// failed conversion.
type ProcessError struct {
	Command string
	Err     error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("running engine %q: %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }
