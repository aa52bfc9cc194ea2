package storefront

import "errors"

var (
	// ErrSessionPending is returned while the authentication verdict is not
	// known yet. No request is issued in that state.
	ErrSessionPending = errors.New("authentication status pending")
	// ErrStorageUnavailable means guest state could not be read or written; the
	// mutation did not take effect.
	ErrStorageUnavailable = errors.New("guest storage unavailable")
	ErrAuthRequired       = errors.New("authentication required")
	ErrNoGuestSession     = errors.New("missing guest session")
)
