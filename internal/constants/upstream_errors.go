package constants

// Upstream Error Codes
// These constants classify failures of the external flight-state API.

const (
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUpstreamError = "UPSTREAM_ERROR"
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeTokenError    = "TOKEN_ERROR"
)

// Error Messages
// Human-readable messages corresponding to error codes

var UpstreamErrorMessages = map[string]string{
	ErrCodeRateLimited:   "OpenSky API rate limit exceeded",
	ErrCodeNotFound:      "OpenSky API endpoint not found",
	ErrCodeUpstreamError: "OpenSky API returned an unexpected response",
	ErrCodeNetworkError:  "Unable to connect to the OpenSky API",
	ErrCodeTokenError:    "Failed to obtain an OpenSky access token",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := UpstreamErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
