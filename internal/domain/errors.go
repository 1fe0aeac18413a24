package domain

import "errors"

var (
	// ErrReauthRequired signals that the upstream rejected the stored
	// credential. The credential is cleared and the caller must run the
	// sign-in flow again; nothing about this condition is cached.
	ErrReauthRequired = errors.New("authentication required")
)
