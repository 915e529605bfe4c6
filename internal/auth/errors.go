package auth

import "errors"

var (
	// ErrUserNotFound is returned when no admin account has the given username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUsernameEmpty is returned when an account is created without a username.
	ErrUsernameEmpty = errors.New("username cannot be empty")

	// ErrPasswordEmpty is returned when an account is created or reset with an empty password.
	ErrPasswordEmpty = errors.New("password cannot be empty")

	// ErrUserExists is returned when creating an account whose username is taken.
	ErrUserExists = errors.New("user with username already exists")
)
