package domain

import "time"

// IdentityAttempt is the per-hashed-identity failed-attempt record.
// Absence of a record is equivalent to zero failures and unlocked — callers must
// never synthesize a zero-value record into the store as a substitute for absence.
type IdentityAttempt struct {
	FailedCount int
	LockedUntil *time.Time
}

// OTPSession is the single in-flight Aadhaar OTP transaction for a hashed identity.
type OTPSession struct {
	TxnID     string
	CreatedAt time.Time
}

// AuthClaims are the JWT claims issued on successful Aadhaar verification.
type AuthClaims struct {
	Subject   string    `json:"sub"`
	TxnID     string    `json:"txn"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
