package services

import (
	"errors"
	"fmt"
)

// LiveDataUnavailableError means the upstream API failed and the cached
// fallback produced nothing servable. It always carries the original
// upstream reason; when the fallback itself failed, that error is attached
// too rather than swallowed.
type LiveDataUnavailableError struct {
	Reason      string // upstream failure message
	FallbackErr error  // set when the fallback read itself failed
}

func (e *LiveDataUnavailableError) Error() string {
	if e.FallbackErr != nil {
		return fmt.Sprintf("%s; cached fallback failed: %v", e.Reason, e.FallbackErr)
	}
	return fmt.Sprintf("%s; no cached flights are available right now", e.Reason)
}

func (e *LiveDataUnavailableError) Unwrap() error {
	return e.FallbackErr
}

// IsLiveDataUnavailable reports whether err is a total live-data failure
// (upstream down and no usable cache).
func IsLiveDataUnavailable(err error) bool {
	var e *LiveDataUnavailableError
	return errors.As(err, &e)
}
