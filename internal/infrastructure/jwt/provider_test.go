package jwtinfra

import (
	"testing"

	"github.com/go-idverify-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(secret string) *Provider {
	return NewProvider(&config.Config{SecretKey: secret, SessionExpiryDays: 1})
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider("test-secret")

	tok, err := p.Sign("a@x.com", "s1")
	require.NoError(t, err)

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "s1", claims.SessionID)
}

func TestVerify_WrongSecret(t *testing.T) {
	p1 := newTestProvider("secret-one")
	p2 := newTestProvider("secret-two")

	tok, err := p1.Sign("a@x.com", "s1")
	require.NoError(t, err)

	_, err = p2.Verify(tok)
	require.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	p := newTestProvider("test-secret")
	_, err := p.Verify("not-a-token")
	require.Error(t, err)
}

func TestNewProvider_EphemeralSecretWhenUnset(t *testing.T) {
	p := NewProvider(&config.Config{SessionExpiryDays: 1})

	tok, err := p.Sign("a@x.com", "s1")
	require.NoError(t, err)
	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
}
