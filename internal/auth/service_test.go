package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	svc := NewService("tradepulse", []byte("test-secret"), time.Hour)
	token, err := svc.SignToken("u1")
	require.NoError(t, err)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	svc := NewService("tradepulse", []byte("test-secret"), time.Hour)
	other := NewService("tradepulse", []byte("other-secret"), time.Hour)

	token, err := svc.SignToken("u1")
	require.NoError(t, err)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	svc := NewService("someone-else", []byte("test-secret"), time.Hour)
	token, err := svc.SignToken("u1")
	require.NoError(t, err)

	verifier := NewService("tradepulse", []byte("test-secret"), time.Hour)
	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	svc := NewService("tradepulse", []byte("test-secret"), -time.Minute)
	token, err := svc.SignToken("u1")
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := NewService("tradepulse", []byte("test-secret"), time.Hour)
	_, err := svc.ParseToken("not.a.token")
	assert.Error(t, err)
}
