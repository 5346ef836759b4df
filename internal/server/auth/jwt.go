// Package auth mints and verifies the HS256 access tokens used by the API.
package auth

import (
	"errors"
	"time"

	"github.com/dbelyaev/recapd/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered claims with the authenticated user's id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken mints an HS256 token for userID valid for validityDuration.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// GetUserIDFromToken verifies the signature and expiry of tokenString and
// returns the embedded user id.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
