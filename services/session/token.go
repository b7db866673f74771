package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

var errNoExpiry = errors.New("token has no exp claim")

// tokenExpiry reads the exp claim of an ID token without verifying the
// signature. Verification is the TokenVerifier's job; this only schedules
// refreshes.
func tokenExpiry(idToken string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(idToken, claims); err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errNoExpiry
	}
	return time.Unix(int64(exp), 0), nil
}
