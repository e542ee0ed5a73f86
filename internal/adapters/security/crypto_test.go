package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
)

func TestAESGCM_SealOpenRoundTrip(t *testing.T) {
	sealer := NewAESGCM()
	key := RandomBytes(aesKeySize)
	plaintext := []byte("account aggregator fi data payload")

	iv, ciphertext, tag, err := sealer.Seal(key, plaintext)
	if err != nil {
		t.Fatalf("unexpected error sealing: %v", err)
	}
	got, err := sealer.Open(key, iv, ciphertext, tag)
	if err != nil {
		t.Fatalf("unexpected error opening: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Errorf("expected round-tripped plaintext %q, got %q", plaintext, got)
	}
}

func TestAESGCM_OpenRejectsTamperedCiphertext(t *testing.T) {
	sealer := NewAESGCM()
	key := RandomBytes(aesKeySize)
	iv, ciphertext, tag, err := sealer.Seal(key, []byte("sensitive"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ciphertext[0] ^= 0xFF
	if _, err := sealer.Open(key, iv, ciphertext, tag); err == nil {
		t.Fatal("expected tampering to be detected")
	}
}

func TestAESGCM_RejectsWrongKeySize(t *testing.T) {
	sealer := NewAESGCM()
	if _, _, _, err := sealer.Seal([]byte("too-short"), []byte("data")); err == nil {
		t.Fatal("expected an error for a non-32-byte key")
	}
}

func TestRSAOAEPWrapper_WrapUnwrapRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("unexpected error generating key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: mustMarshalPKIX(t, &key.PublicKey),
	})

	wrapper := NewRSAOAEPWrapper()
	sessionKey := RandomBytes(32)
	wrapped, err := wrapper.Wrap(pubPEM, sessionKey)
	if err != nil {
		t.Fatalf("unexpected error wrapping: %v", err)
	}
	if len(wrapped) == 0 {
		t.Fatal("expected non-empty wrapped output")
	}
	unwrapped, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, key, wrapped, nil)
	if err != nil {
		t.Fatalf("unexpected error unwrapping: %v", err)
	}
	if string(unwrapped) != string(sessionKey) {
		t.Error("expected the unwrapped key to equal the original session key")
	}
}

func TestParseRSAPrivatePEM_AcceptsPKCS8(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("unexpected error generating key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	parsed, err := ParseRSAPrivatePEM(privPEM)
	if err != nil {
		t.Fatalf("unexpected error parsing: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Error("expected parsed key to match the original modulus")
	}
}

func TestHMACSHA256_IsDeterministic(t *testing.T) {
	key := []byte("shared-secret")
	data := []byte("payload")
	if string(HMACSHA256(key, data)) != string(HMACSHA256(key, data)) {
		t.Error("expected HMAC to be deterministic for identical key/data")
	}
}

func TestSHA256Hex_ReturnsLowercaseHexDigestOfFixedLength(t *testing.T) {
	got := SHA256Hex([]byte("hello"))
	if len(got) != 64 {
		t.Errorf("expected a 64-char hex digest, got %d chars: %s", len(got), got)
	}
	if got != strings.ToLower(got) {
		t.Errorf("expected a lowercase hex digest, got %s", got)
	}
	if got != SHA256Hex([]byte("hello")) {
		t.Error("expected SHA256Hex to be deterministic for identical input")
	}
}

func mustMarshalPKIX(t *testing.T, pub *rsa.PublicKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatalf("unexpected error marshaling public key: %v", err)
	}
	return der
}
