package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails validation: missing,
// malformed, wrong signature, or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the session-token claims. The flat number is the resident's
// caller identity; protected handlers re-resolve the resident row from it
// and never trust a client-supplied id.
type Claims struct {
	FlatNumber string `json:"flat_number"`
	jwt.RegisteredClaims
}

// Tokens issues and validates signed session tokens.
type Tokens struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokens creates a token manager with the given signing secret and
// token lifetime.
func NewTokens(secretKey string, ttl time.Duration) *Tokens {
	return &Tokens{secretKey: []byte(secretKey), ttl: ttl}
}

// Issue creates a signed token embedding the flat number and an absolute
// expiry.
func (t *Tokens) Issue(flatNumber string) (string, error) {
	now := time.Now()
	claims := &Claims{
		FlatNumber: flatNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates the token signature and expiry and returns the embedded
// flat number.
func (t *Tokens) Parse(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secretKey, nil
	})
	if err != nil || !token.Valid || claims.FlatNumber == "" {
		return "", ErrInvalidToken
	}
	return claims.FlatNumber, nil
}
