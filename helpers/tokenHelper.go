package helpers

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenExpired reports whether a JWT carries an exp claim in the past. The
// signature is deliberately not checked; the backend stays the authority on
// validity, this only avoids restoring a session it is guaranteed to reject.
// Opaque non-JWT tokens pass through untouched.
func TokenExpired(signedToken string) bool {
	parser := jwt.Parser{SkipClaimsValidation: true}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(signedToken, claims); err != nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return int64(exp) < time.Now().Unix()
}
