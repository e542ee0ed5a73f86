package security

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/novascore/credit-engine/internal/domain"
)

// DetachedJWSSigner produces AA-style detached JWS envelopes: RS256 over a
// b64:false critical header, falling back to HMAC when the private key is
// unavailable and the fallback is not disabled in production.
type DetachedJWSSigner struct {
	kid           string
	privateKey    *rsa.PrivateKey
	hmacSecret    []byte
	allowFallback bool
	logged        bool
}

// NewDetachedJWSSigner builds a signer bound to a client key id and RSA private key.
func NewDetachedJWSSigner(kid string, privateKey *rsa.PrivateKey, hmacFallbackSecret []byte, allowFallback bool) *DetachedJWSSigner {
	return &DetachedJWSSigner{kid: kid, privateKey: privateKey, hmacSecret: hmacFallbackSecret, allowFallback: allowFallback}
}

type jwsHeader struct {
	Alg  string   `json:"alg"`
	Kid  string   `json:"kid"`
	B64  bool     `json:"b64"`
	Crit []string `json:"crit"`
}

func (s *DetachedJWSSigner) header(alg string) ([]byte, error) {
	return json.Marshal(jwsHeader{Alg: alg, Kid: s.kid, B64: false, Crit: []string{"b64"}})
}

// Sign returns the compact detached representation "header..signature".
func (s *DetachedJWSSigner) Sign(payload []byte) (string, error) {
	alg := "RS256"
	if s.privateKey == nil {
		if !s.allowFallback {
			return "", fmt.Errorf("%w: RSA private key unavailable and HMAC fallback disabled", domain.ErrKeyUnavailable)
		}
		alg = "HS256"
	}

	rawHeader, err := s.header(alg)
	if err != nil {
		return "", err
	}
	headerB64 := B64URLEncode(rawHeader)
	payloadB64 := B64URLEncode(payload)
	signingInput := headerB64 + "." + payloadB64

	var sig []byte
	switch alg {
	case "RS256":
		sig, err = jwt.SigningMethodRS256.Sign(signingInput, s.privateKey)
	default:
		if !s.logged {
			slog.Default().Warn("detached jws falling back to HMAC signing; never use in production",
				"service", "credit-intelligence-engine", "module", "security", "operation", "jws_sign", "outcome", "degraded")
			s.logged = true
		}
		sig, err = jwt.SigningMethodHS256.Sign(signingInput, s.hmacSecret)
	}
	if err != nil {
		return "", err
	}
	return headerB64 + ".." + B64URLEncode(sig), nil
}

// Verify recomputes the signing input and checks the signature. It mirrors
// the signer's algorithm choice by reading the header's alg field.
func (s *DetachedJWSSigner) Verify(detachedJWS string, payload []byte) (bool, error) {
	parts := splitDetached(detachedJWS)
	if len(parts) != 3 || parts[1] != "" {
		return false, fmt.Errorf("%w: malformed detached jws", domain.ErrInvalidInput)
	}
	headerB64, sigB64 := parts[0], parts[2]

	rawHeader, err := B64URLDecode(headerB64)
	if err != nil {
		return false, err
	}
	var hdr jwsHeader
	if err := json.Unmarshal(rawHeader, &hdr); err != nil {
		return false, err
	}
	sig, err := B64URLDecode(sigB64)
	if err != nil {
		return false, err
	}
	signingInput := headerB64 + "." + B64URLEncode(payload)

	switch hdr.Alg {
	case "RS256":
		if s.privateKey == nil {
			return false, fmt.Errorf("%w: no RSA key configured to verify", domain.ErrKeyUnavailable)
		}
		if err := jwt.SigningMethodRS256.Verify(signingInput, sig, &s.privateKey.PublicKey); err != nil {
			return false, nil
		}
		return true, nil
	case "HS256":
		if err := jwt.SigningMethodHS256.Verify(signingInput, sig, s.hmacSecret); err != nil {
			return false, nil
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: unsupported alg %s", domain.ErrInvalidInput, hdr.Alg)
	}
}

func splitDetached(s string) []string {
	out := make([]string, 0, 3)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
