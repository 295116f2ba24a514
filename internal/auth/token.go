package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiresAt reads the exp claim without verifying the signature. Token
// validation belongs to the server; the expiry only separates "had a stale
// token" from "was never logged in".
func tokenExpiresAt(token string) (time.Time, bool) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func tokenIsExpired(token string, now time.Time) bool {
	expiry, ok := tokenExpiresAt(token)
	if !ok {
		return false
	}
	return expiry.Before(now)
}
