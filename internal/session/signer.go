package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "brandcheck"

// Signer wraps session tokens in HS256 JWTs.
type Signer struct {
	key []byte
}

// NewSigner returns a Signer for key. The key must not be empty.
func NewSigner(key string) (*Signer, error) {
	if key == "" {
		return nil, errors.New("signing key is required")
	}
	return &Signer{key: []byte(key)}, nil
}

// Sign returns a JWT whose ID is id and which expires ttl after issued.
func (s *Signer) Sign(id string, issued time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry at now and returns the token ID.
func (s *Signer) Verify(token string, now time.Time) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.ID, nil
}
