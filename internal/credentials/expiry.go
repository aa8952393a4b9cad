package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource is the read side of a Store.
type TokenSource interface {
	Token() (string, bool)
}

// Expired reports whether token is a JWT whose exp claim is at or before now.
// Opaque (non-JWT) tokens and tokens without exp are never considered expired;
// the backend remains the authority on those.
func Expired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

type expiryGuard struct {
	src TokenSource
	now func() time.Time
}

// WithExpiry hides expired JWTs so an auth-required call fails fast as
// "not authenticated" instead of round-tripping to a guaranteed 401.
func WithExpiry(src TokenSource) TokenSource {
	return &expiryGuard{src: src, now: time.Now}
}

func (g *expiryGuard) Token() (string, bool) {
	token, ok := g.src.Token()
	if !ok {
		return "", false
	}
	if Expired(token, g.now()) {
		return "", false
	}
	return token, true
}
