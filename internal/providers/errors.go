package providers

import (
	"errors"
	"fmt"

	"skywatch/tracker/internal/constants"
)

// ProviderError represents a classified failure of the upstream API
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err (or anything it wraps) is a
// classified upstream failure.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

func hasCode(err error, code string) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Code == code
}

// IsRateLimited reports an HTTP 429 from the upstream API.
func IsRateLimited(err error) bool {
	return hasCode(err, constants.ErrCodeRateLimited)
}

// IsNotFound reports an HTTP 404 from the upstream API.
func IsNotFound(err error) bool {
	return hasCode(err, constants.ErrCodeNotFound)
}
