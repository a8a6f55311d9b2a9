package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerPrefix is prepended to the token on authenticated requests.
const BearerPrefix = "Bearer "

var unverifiedParser = jwt.NewParser()

// Expired reports whether a JWT-shaped token carries an exp claim at or before now.
// The panel never holds the signing key, so the signature is not checked; tokens
// that are not JWTs (opaque Sanctum tokens) are never considered expired.
func Expired(token string, now time.Time) bool {
	token = strings.TrimSpace(token)
	if token == "" || strings.Count(token, ".") != 2 {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := unverifiedParser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(now)
}

// BearerHeader renders the Authorization header value for token.
func BearerHeader(token string) string {
	return BearerPrefix + strings.TrimSpace(token)
}
