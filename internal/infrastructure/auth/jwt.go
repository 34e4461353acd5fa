// Package auth validates access tokens issued by the external identity
// provider. This service never issues end-user tokens itself; it shares a
// secret with the issuer.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrMissingAccount = errors.New("missing account_id in claims")
)

// Claims represents the JWT claims carried by an access token. AccountID is
// the caller's subscriber account identifier.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

// JWTService validates (and, for tests and tooling, signs) access tokens.
type JWTService struct {
	secret []byte
	issuer string
}

// NewJWTService creates a new JWT service.
func NewJWTService(secret, issuer string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// ValidateToken parses and validates an access token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.AccountID == "" {
		return nil, ErrMissingAccount
	}
	return claims, nil
}

// GenerateToken signs an access token for the given account. Used by tests
// and local tooling; production tokens come from the identity provider.
func (s *JWTService) GenerateToken(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
