package domain

import "errors"

var (
	// ErrUnauthenticated covers every token validation failure: missing,
	// malformed, expired, blacklisted or pointing at a deleted user. The
	// causes are deliberately collapsed into one error so a caller cannot
	// probe which check failed.
	ErrUnauthenticated = errors.New("could not validate credentials")

	ErrInvalidCredentials  = errors.New("incorrect email address or password")
	ErrInactiveUser        = errors.New("inactive user")
	ErrNotEnoughPrivileges = errors.New("not enough permissions")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("a user with this email already exists")
	ErrSelfDelete          = errors.New("users cannot delete their own account")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrInternal            = errors.New("internal server error")
)
