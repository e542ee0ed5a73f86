package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/novascore/credit-engine/internal/domain"
)

// HMACTokenSigner implements ports.TokenSigner with HS256: "JWT:
// HS-signed with configured secret".
type HMACTokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewHMACTokenSigner builds a signer from a shared secret and default expiry.
func NewHMACTokenSigner(secret []byte, ttl time.Duration) *HMACTokenSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &HMACTokenSigner{secret: secret, ttl: ttl}
}

type aadhaarClaims struct {
	Txn string `json:"txn"`
	jwt.RegisteredClaims
}

// Sign issues a JWT with claims {sub, txn, iat} and the configured expiry.
func (s *HMACTokenSigner) Sign(claims domain.AuthClaims) (string, error) {
	iat := claims.IssuedAt
	if iat.IsZero() {
		iat = time.Now().UTC()
	}
	exp := claims.ExpiresAt
	if exp.IsZero() {
		exp = iat.Add(s.ttl)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, aadhaarClaims{
		Txn: claims.TxnID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	return token.SignedString(s.secret)
}

// ParseAndValidate validates signature and expiry and rebuilds domain.AuthClaims.
func (s *HMACTokenSigner) ParseAndValidate(raw string) (domain.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &aadhaarClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(5*time.Second))
	if err != nil {
		return domain.AuthClaims{}, err
	}
	claims, ok := parsed.Claims.(*aadhaarClaims)
	if !ok || !parsed.Valid {
		return domain.AuthClaims{}, errors.New("invalid token claims")
	}
	return domain.AuthClaims{
		Subject:   claims.Subject,
		TxnID:     claims.Txn,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
