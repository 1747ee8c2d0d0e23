package auth

import "errors"

// Closed sign-in error taxonomy. Handlers map these to HTTP statuses; no
// other error shapes escape the package.
var (
	// ErrInvalidCredentials: the submitted pair does not match the configured
	// local credential pair. Returned without consulting stored accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProviderAuth: the stored account rejected the credentials (unknown
	// email or wrong password).
	ErrProviderAuth = errors.New("authentication rejected")

	// ErrUnexpectedAuth: infrastructure failure during sign-in (database or
	// session store unreachable).
	ErrUnexpectedAuth = errors.New("unexpected authentication error")
)
