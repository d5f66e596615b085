package trakt

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDeviceCodeExpired is returned when the user did not approve the device code in time.
	ErrDeviceCodeExpired = errors.New("device code expired before authorization")
	// ErrAuthorizationDenied is returned when Trakt rejects a device token poll with anything but "pending".
	ErrAuthorizationDenied = errors.New("trakt authorization failed")
	// ErrRefreshFailed is returned when a refresh token cannot be exchanged.
	ErrRefreshFailed = errors.New("trakt token refresh failed")
	// ErrReauthenticate is returned when the cached credential can neither be used nor refreshed.
	ErrReauthenticate = errors.New("cached trakt credential is no longer usable; run 'trakt2letterboxd auth login'")
	// ErrCredentialRevoked is returned when an authenticated call answers 401/403. The cache is cleared.
	ErrCredentialRevoked = errors.New("trakt rejected the access token; the cached credential was removed, re-run to re-authenticate")
)

// StatusError reports a non-2xx answer from the Trakt API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("trakt %s %s returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("trakt %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func isAuthRejection(err error) bool {
	switch StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	default:
		return false
	}
}
