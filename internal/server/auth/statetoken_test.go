package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateStateToken("nonce-1", secret, time.Minute)
	require.NoError(t, err)

	nonce, err := ValidateStateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "nonce-1", nonce)
}

func TestStateToken_WrongSecret(t *testing.T) {
	token, err := GenerateStateToken("nonce-1", []byte("secret-a"), time.Minute)
	require.NoError(t, err)

	_, err = ValidateStateToken(token, []byte("secret-b"))
	require.Error(t, err)
}

func TestStateToken_Expired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateStateToken("nonce-1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateStateToken(token, secret)
	require.Error(t, err)
}

func TestStateToken_Garbage(t *testing.T) {
	_, err := ValidateStateToken("not-a-token", []byte("test-secret"))
	require.Error(t, err)
}
