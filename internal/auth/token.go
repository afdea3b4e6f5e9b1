// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 30 * 24 * time.Hour

// TokenService signs and verifies bearer tokens that carry a user id and an
// expiry. Tokens are stateless: nothing is stored, verification recomputes
// the signature against the secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue returns a signed token binding userID with an expiry 30 days out.
func (s *TokenService) Issue(userID string) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    issuedAt.Add(TokenTTL).Unix(),
		"iat":    issuedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify returns the user id embedded in tokenStr if the signature checks out
// and the token has not expired. A missing identity is a normal outcome, so
// malformed, tampered and expired tokens all report ok=false rather than an
// error.
func (s *TokenService) Verify(tokenStr string) (userID string, ok bool) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, okClaims := tok.Claims.(jwt.MapClaims)
	if !okClaims {
		return "", false
	}
	userID, okClaims = claims["userId"].(string)
	if !okClaims || userID == "" {
		return "", false
	}
	return userID, true
}
