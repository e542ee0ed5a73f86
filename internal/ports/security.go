package ports

import "github.com/novascore/credit-engine/internal/domain"

// AEADSealer performs AES-256-GCM sealing/opening. A fresh IV must be
// drawn immediately before every Seal call; implementations never accept a
// caller-supplied IV to make reuse structurally impossible.
type AEADSealer interface {
	Seal(key, plaintext []byte) (iv, ciphertext, tag []byte, err error)
	Open(key, iv, ciphertext, tag []byte) (plaintext []byte, err error)
}

// KeyWrapper wraps a session key under RSA-OAEP-SHA256.
// It returns domain.ErrKeyUnavailable when the configured PEM cannot be read;
// the caller decides whether to substitute the documented dev-only sentinel.
type KeyWrapper interface {
	Wrap(publicKeyPEM []byte, sessionKey []byte) ([]byte, error)
}

// TokenSigner issues and validates the Aadhaar-verification JWT.
type TokenSigner interface {
	Sign(claims domain.AuthClaims) (string, error)
	ParseAndValidate(raw string) (domain.AuthClaims, error)
}

// DetachedJWSSigner produces/validates the AA detached-JWS envelope.
type DetachedJWSSigner interface {
	Sign(payload []byte) (string, error)
	Verify(detachedJWS string, payload []byte) (bool, error)
}
