package core

import (
	"fmt"
	"time"
)

// TimeoutError reports that no response arrived for a correlated request
// within the allowed window. It is distinguishable from ordinary processing
// failures so callers can retry or degrade differently.
type TimeoutError struct {
	Target  string
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no response from %q within %s", e.Target, e.Timeout)
}

// RoutingError reports that a message targeted an agent id that was not
// registered at dispatch time.
type RoutingError struct {
	Target string
}

// Error implements the error interface.
func (e *RoutingError) Error() string {
	return fmt.Sprintf("agent %q is not registered", e.Target)
}
