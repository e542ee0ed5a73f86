package domain

import "errors"

// Sentinel errors classify every failure the core can return.
// Adapters map these to transport status codes; core code never panics for control flow.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("conflict")
	ErrRateLimited         = errors.New("rate limited")
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrDecryptionFailure   = errors.New("decryption failure")
	ErrKeyUnavailable      = errors.New("key unavailable")
	ErrInternal            = errors.New("internal error")

	// Aadhaar state-machine specific.
	ErrInvalidIdentifier = errors.New("invalid aadhaar identifier")
	ErrLocked            = errors.New("identity locked")
	ErrNoSession         = errors.New("no active otp session")
	ErrTxnMismatch       = errors.New("transaction id mismatch")
	ErrOTPInvalid        = errors.New("otp invalid")
)
