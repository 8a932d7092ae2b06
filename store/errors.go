package store

import "errors"

// Sentinel errors for the identity and content stores. All of them are
// per-request outcomes; none is fatal to the process.
var (
	// ErrNotFound is returned when an id does not resolve to an existing
	// record, including non-numeric ids.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when registration targets a taken name.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials is returned when login fails, for unknown users
	// and password mismatches alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrVoteThrottled is returned when a vote lands inside the 24h window.
	ErrVoteThrottled = errors.New("vote window has not elapsed")
)
