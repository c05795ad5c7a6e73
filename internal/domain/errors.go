package domain

import "fmt"

// ValidationError reports a missing or malformed input field. It is always
// recoverable at the handler boundary and maps to a client-error response;
// the message names the field so callers can tell what to fix.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
