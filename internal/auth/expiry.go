package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiryBuffer is how close to expiry a token is reported as expiring soon.
const ExpiryBuffer = time.Minute

// ExpiresAt reads the exp claim of an access token without verifying the
// signature. The result is a hint for startup logging only; the backend
// remains the authority on token validity.
func ExpiresAt(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}
	return exp.Time, nil
}

// ExpiresSoon reports whether the token is expired or within ExpiryBuffer of
// expiring. Tokens without a readable exp claim are never reported as
// expiring; the 401 path handles them.
func ExpiresSoon(token string) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return false
	}
	return time.Until(exp) <= ExpiryBuffer
}
