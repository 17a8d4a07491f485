package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateSessionToken(t *testing.T) {
	svc := NewJWTService("test-secret", "dropin-checkout-api")

	token, err := svc.GenerateSessionToken("session-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-123", claims.SessionID)
	assert.Equal(t, "dropin-checkout-api", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "dropin-checkout-api")
	verifier := NewJWTService("secret-b", "dropin-checkout-api")

	token, err := issuer.GenerateSessionToken("session-123")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "dropin-checkout-api")

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
