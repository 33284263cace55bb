package auth_test

import (
	"testing"
	"time"

	"keepsake/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	j := auth.NewJWT("test-secret")

	token, err := j.Sign(42)
	require.NoError(t, err)

	uid, err := j.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), uid)
}

func TestJWTExpiresAfterSessionTTL(t *testing.T) {
	token, err := auth.NewJWT("test-secret").Sign(1)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	require.EqualValues(t, int64(auth.SessionTTL/time.Second), exp-iat)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewJWT("secret-a").Sign(1)
	require.NoError(t, err)

	_, err = auth.NewJWT("secret-b").Verify(token)
	require.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := auth.NewJWT("test-secret").Verify("not.a.token")
	require.Error(t, err)
}
