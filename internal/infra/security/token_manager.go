package security

import (
	"time"

	"promo-business-api/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Bearer token primitives =====

// TokenManager mints and verifies the HS256 bearer tokens the business API
// runs on. The secret and TTL come from startup config and never change for
// the lifetime of the process; expiry is the only revocation mechanism.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

type CompanyClaims struct {
	jwt.RegisteredClaims
}

// Issue signs a token whose subject is the company's email, with
// exp = iat + ttl.
func (m *TokenManager) Issue(subject string) (string, error) {
	now := time.Now()
	claims := CompanyClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies signature and expiry. Malformed, badly signed and expired
// tokens all collapse to domain.ErrInvalidToken; callers answer 401 without
// leaking which check failed.
func (m *TokenManager) Parse(tok string) (*CompanyClaims, error) {
	claims := &CompanyClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// TTL exposes the configured token lifetime.
func (m *TokenManager) TTL() time.Duration { return m.ttl }
