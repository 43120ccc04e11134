package security

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadToken = errors.New("invalid token")

// TokenProvider issues and validates the signed bearer tokens used on the
// Authorization header. It is stateless; the secret and TTL come from
// configuration at startup.
type TokenProvider struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenProvider builds a provider from the configured secret and token
// lifetime. A secret shorter than 256 bits is accepted for development but
// flagged, not fatal.
func NewTokenProvider(secret string, ttl time.Duration) *TokenProvider {
	if len(secret) < 32 {
		log.Printf("WARN: JWT secret is shorter than recommended 256 bits (%d bytes), use a stronger key in production", len(secret))
	}
	return &TokenProvider{secret: []byte(secret), ttl: ttl}
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate issues a token with subject=username, issued-at=now and
// expiry=now+ttl, signed with HMAC-SHA256.
func (tp *TokenProvider) Generate(username string) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tp.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tp.secret)
}

func (tp *TokenProvider) parse(raw string) (*claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return tp.secret, nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	return c, nil
}

// Validate reports whether the token parses, carries a good signature and
// has not expired. It fails closed on any error.
func (tp *TokenProvider) Validate(raw string) bool {
	_, err := tp.parse(raw)
	return err == nil
}

// Subject extracts the username from a token. Used in best-effort contexts,
// so parse failures yield ok=false instead of an error.
func (tp *TokenProvider) Subject(raw string) (string, bool) {
	c, err := tp.parse(raw)
	if err != nil {
		return "", false
	}
	return c.Subject, true
}
