package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.Must(uuid.NewV7())
	orgID := uuid.Must(uuid.NewV7())

	token, err := SignSessionToken(secret, userID, orgID, time.Hour)
	require.NoError(t, err)

	gotUser, gotOrg, err := ParseSessionToken(secret, token)
	require.NoError(t, err)
	require.Equal(t, userID, gotUser)
	require.Equal(t, orgID, gotOrg)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	userID := uuid.Must(uuid.NewV7())
	orgID := uuid.Must(uuid.NewV7())

	token, err := SignSessionToken([]byte("secret-a"), userID, orgID, time.Hour)
	require.NoError(t, err)

	_, _, err = ParseSessionToken([]byte("secret-b"), token)
	require.Error(t, err)
}

func TestParseSessionToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.Must(uuid.NewV7())
	orgID := uuid.Must(uuid.NewV7())

	token, err := SignSessionToken(secret, userID, orgID, -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseSessionToken(secret, token)
	require.Error(t, err)
}

func TestParseSessionToken_Garbage(t *testing.T) {
	_, _, err := ParseSessionToken([]byte("test-secret"), "not-a-token")
	require.Error(t, err)
}
