package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenValidAt parses a bearer token without signature verification and
// checks its expiry claim against now. A token that cannot be parsed or
// carries no expiry is treated as invalid: submission must not proceed on
// a session the backend would reject anyway.
func tokenValidAt(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.Before(exp.Time)
}
