// Package identity resolves the authenticated principal attached to a
// request. Session tokens are issued by the external identity provider;
// this service only verifies them.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated user behind a request.
type Principal struct {
	UserID string
	Name   string
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Verifier validates provider-issued session tokens.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret []byte, issuer string) *Verifier {
	return &Verifier{secret: secret, issuer: issuer}
}

// Verify parses a bearer token and returns the principal it carries.
func (v *Verifier) Verify(token string) (Principal, error) {
	parsed := &claims{}
	_, err := jwt.ParseWithClaims(token, parsed, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpiredToken
		}
		return Principal{}, ErrInvalidToken
	}
	if parsed.Subject == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: parsed.Subject, Name: parsed.Name}, nil
}

// SignToken mints a session token the way the identity provider does.
// Used by local tooling and the test suite.
func SignToken(secret []byte, issuer, userID, name string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
