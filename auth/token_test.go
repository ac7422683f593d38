package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenManager_Generate_And_Validate(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)

	// When generating then validating a token
	token, err := manager.Generate("alice", []string{"user"})
	req.NoError(err)

	claims, err := manager.Validate(token)

	// Then the claims round trip
	req.NoError(err)
	req.Equal("alice", claims.UserID)
	req.Equal([]string{"user"}, claims.Roles)
	req.Equal("market-chat", claims.Issuer)
}

func TestTokenManager_Rejects_Expired_Token(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Generate("alice", nil)
	req.NoError(err)

	_, err = manager.Validate(token)

	req.Error(err)
}

func TestTokenManager_Rejects_Wrong_Secret(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Generate("alice", nil)
	req.NoError(err)

	_, err = verifier.Validate(token)

	req.Error(err)
}

func TestTokenManager_Rejects_Garbage(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)

	_, err := manager.Validate("not.a.token")

	req.Error(err)
}
