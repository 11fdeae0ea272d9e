package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/postforge/identity/internal/common"
)

// Claims extends the registered JWT claims with the user the token was
// minted for. The session record ID travels in the standard ID (jti)
// claim so the server can revoke tokens before their natural expiry.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken mints an HS256 session token for userID bound to the
// given server-side session record.
func GenerateToken(userID, sessionID string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of a session token and
// returns its user and session IDs.
func ParseToken(tokenString string, secretKey []byte) (userID string, sessionID string, err error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", "", common.ErrInvalidToken
	}

	return claims.UserID, claims.ID, nil
}
