package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const OperatorTokenTTL = 12 * time.Hour

// Claims identify the operator allowed to start audits and register objects.
type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

func SignToken(secret, operator string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
