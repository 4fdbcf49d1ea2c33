package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every token that cannot be accepted:
// malformed input, bad signature, missing subject, or expiry in the past.
// Callers must not surface the distinction to end users (a single 401-class
// failure avoids oracle leaks); internal logs may carry the wrapped cause.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload carried by access tokens. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// NewAccessToken issues a signed HS256 bearer token whose subject is the
// given user id and whose expiry is now+ttl. Tokens are stateless: nothing
// is persisted and there is no revocation before expiry.
func NewAccessToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry, then returns the subject (user
// id). Verification fails closed: any decode error, an unexpected signing
// method, or an empty subject yields ErrInvalidToken wrapping the cause.
func ParseToken(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
