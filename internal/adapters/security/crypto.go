// Package security implements the cryptographic primitives, encoders,
// JWT issuance, and detached-JWS signing the core depends on. Key material is
// accepted as opaque bytes/PEM blobs; no key management lives here.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"hash"

	"crypto/hmac"

	"github.com/novascore/credit-engine/internal/domain"
)

const (
	aesKeySize = 32
	gcmIVSize  = 12
	gcmTagSize = 16
)

// AESGCM implements ports.AEADSealer.
type AESGCM struct{}

// NewAESGCM constructs the default AES-256-GCM sealer.
func NewAESGCM() AESGCM { return AESGCM{} }

// Seal draws a fresh 12-byte IV from the OS CSPRNG immediately before sealing,
// so key/IV reuse cannot happen by construction.
func (AESGCM) Seal(key, plaintext []byte) (iv, ciphertext, tag []byte, err error) {
	if len(key) != aesKeySize {
		return nil, nil, nil, fmt.Errorf("%w: aes key must be %d bytes", domain.ErrInvalidInput, aesKeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, nil, err
	}
	gcm, err := cipher.NewGCMWithTagSize(block, gcmTagSize)
	if err != nil {
		return nil, nil, nil, err
	}
	iv = RandomBytes(gcmIVSize)
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ciphertext = sealed[:len(sealed)-gcmTagSize]
	tag = sealed[len(sealed)-gcmTagSize:]
	return iv, ciphertext, tag, nil
}

// Open verifies the GCM tag and decrypts; any tampering yields ErrDecryptionFailure.
func (AESGCM) Open(key, iv, ciphertext, tag []byte) ([]byte, error) {
	if len(key) != aesKeySize {
		return nil, fmt.Errorf("%w: aes key must be %d bytes", domain.ErrInvalidInput, aesKeySize)
	}
	if len(iv) != gcmIVSize || len(tag) != gcmTagSize {
		return nil, fmt.Errorf("%w: malformed iv/tag length", domain.ErrDecryptionFailure)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithTagSize(block, gcmTagSize)
	if err != nil {
		return nil, err
	}
	sealed := append(append([]byte{}, ciphertext...), tag...)
	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptionFailure, err)
	}
	return plaintext, nil
}

// RSAOAEPWrapper implements ports.KeyWrapper.
type RSAOAEPWrapper struct{}

// NewRSAOAEPWrapper constructs the default RSA-OAEP-SHA256 key wrapper.
func NewRSAOAEPWrapper() RSAOAEPWrapper { return RSAOAEPWrapper{} }

// Wrap encrypts sessionKey under the given PEM-encoded RSA public key.
// It returns domain.ErrKeyUnavailable when the PEM cannot be parsed.
func (RSAOAEPWrapper) Wrap(publicKeyPEM, sessionKey []byte) ([]byte, error) {
	pub, err := ParseRSAPublicPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyUnavailable, err)
	}
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, sessionKey, nil)
}

// ParseRSAPublicPEM accepts either PKCS1 or PKIX-encoded RSA public keys, mirroring
// the tolerant parsing the retrieval pack's JWT adapter uses for its own key material.
func ParseRSAPublicPEM(raw []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("invalid public PEM")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return key, nil
}

// ParseRSAPrivatePEM accepts either PKCS1 or PKCS8-encoded RSA private keys.
func ParseRSAPrivatePEM(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("invalid private PEM")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	keyAny, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := keyAny.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}
	return key, nil
}

// HMACSHA256 computes a detached MAC over data under key.
func HMACSHA256(key, data []byte) []byte {
	var h hash.Hash = hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// SHA256Hex returns the lower-case hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RandomBytes draws n bytes from the OS CSPRNG. It never falls back to a
// pseudorandom stream — a read failure panics, since the process has no
// safe degraded behaviour for a broken entropy source.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("security: OS CSPRNG unavailable: %v", err))
	}
	return b
}
