package login

import "errors"

var (
	// ErrInvalidCredentials is returned when the username or password is
	// wrong or the account is disabled.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAuthNotConfigured is returned by Init when no authentication
	// provider is available.
	ErrAuthNotConfigured = errors.New("no authentication provider configured")
)
