package users

import "errors"

var (
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken: signup with an email that already has an account.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotApproved: credentials are correct but the account has not been
	// approved by an administrator yet.
	ErrNotApproved = errors.New("account is pending approval")
)
