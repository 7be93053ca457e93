package google

import (
	"errors"
	"fmt"
)

// ErrNoRefreshToken is wrapped by RefreshError when a refresh is attempted
// without a stored refresh token. It is unrecoverable without new consent.
var ErrNoRefreshToken = errors.New("no refresh token available")

// RefreshFailure classifies why a token refresh failed.
type RefreshFailure string

const (
	// RefreshNoToken means there was no refresh token to exchange.
	RefreshNoToken RefreshFailure = "no_refresh_token"
	// RefreshTransport means the refresh request never got a response.
	RefreshTransport RefreshFailure = "transport"
	// RefreshStatus means the token endpoint answered with a non-success status.
	RefreshStatus RefreshFailure = "status"
	// RefreshInvalidResponse means the token endpoint answered with an unusable body.
	RefreshInvalidResponse RefreshFailure = "invalid_response"
)

// RefreshError is returned when an access token cannot be refreshed.
// Refresh errors are never retried internally.
type RefreshError struct {
	Reason     RefreshFailure
	StatusCode int // HTTP status for RefreshStatus, 0 otherwise
	Err        error
}

// Error implements the error interface
func (e *RefreshError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("token refresh failed (%s, HTTP %d): %v", e.Reason, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("token refresh failed (%s, HTTP %d)", e.Reason, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("token refresh failed (%s): %v", e.Reason, e.Err)
	default:
		return fmt.Sprintf("token refresh failed (%s)", e.Reason)
	}
}

// Unwrap returns the underlying cause.
func (e *RefreshError) Unwrap() error {
	return e.Err
}

// NewRefreshError creates a RefreshError.
func NewRefreshError(reason RefreshFailure, statusCode int, err error) *RefreshError {
	return &RefreshError{
		Reason:     reason,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ConfigError reports that an authenticated operation was attempted without
// any way to obtain credentials in the current flow.
type ConfigError struct {
	Description string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return "google auth not configured: " + e.Description
}

// IsRefreshError reports whether err is (or wraps) a RefreshError.
func IsRefreshError(err error) bool {
	var re *RefreshError
	return errors.As(err, &re)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
