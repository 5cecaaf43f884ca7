// Package auth issues and validates the short-lived HS256 tokens used as the
// OAuth state parameter, so the login callback can reject forged or replayed
// redirects without server-side state.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shipyardhq/shipyard/internal/common"
)

type stateClaims struct {
	jwt.RegisteredClaims
	Nonce string
}

// GenerateStateToken signs a state token carrying a random nonce, valid for
// validityDuration.
func GenerateStateToken(nonce string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Nonce: nonce,
	})

	return token.SignedString(secretKey)
}

// ValidateStateToken checks signature and expiry and returns the embedded
// nonce.
func ValidateStateToken(tokenString string, secretKey []byte) (string, error) {
	claims := &stateClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Nonce, nil
}
