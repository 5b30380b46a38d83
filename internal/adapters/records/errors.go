package records

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by LookupError when the backend has no such document.
var ErrNotFound = errors.New("record not found")

// LookupError reports a failed call to the records backend. Status is the
// HTTP status when one was received and zero for transport failures.
// Lookups are never retried; callers decide whether to try again.
type LookupError struct {
	Op     string
	Status int
	Err    error
}

func (e *LookupError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("records %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("records %s: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Body)
}
