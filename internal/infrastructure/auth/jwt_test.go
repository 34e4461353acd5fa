package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", "subhub")

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.GenerateToken("acct-1", time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "acct-1", claims.AccountID)
		assert.Equal(t, "subhub", claims.Issuer)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := svc.GenerateToken("acct-1", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		other := NewJWTService("other-secret", "subhub")
		token, err := other.GenerateToken("acct-1", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other := NewJWTService("test-secret", "someone-else")
		token, err := other.GenerateToken("acct-1", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects missing account id", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    "subhub",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		token, err := raw.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingAccount)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
