package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	req := require.New(t)

	encoded, err := HashPassword("correct horse battery staple")
	req.NoError(err)
	req.True(strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := ComparePassword("correct horse battery staple", encoded)
	req.NoError(err)
	req.True(ok)

	ok, err = ComparePassword("wrong password", encoded)
	req.NoError(err)
	req.False(ok)
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	req := require.New(t)

	first, err := HashPassword("same password")
	req.NoError(err)
	second, err := HashPassword("same password")
	req.NoError(err)
	req.NotEqual(first, second)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("anything", "not-an-encoded-hash")
	req.Error(err)
}

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Generate("alice")
	req.NoError(err)

	claims, err := manager.Validate(token)
	req.NoError(err)
	req.Equal("alice", claims.Username)
	req.Equal("chat-core", claims.Issuer)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	req := require.New(t)

	token, err := NewTokenManager("secret-one", time.Hour).Generate("alice")
	req.NoError(err)

	_, err = NewTokenManager("secret-two", time.Hour).Validate(token)
	req.Error(err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Generate("alice")
	req.NoError(err)

	_, err = manager.Validate(token)
	req.Error(err)
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name    string
		request SignupRequest
		wantErr bool
	}{
		{
			name:    "valid",
			request: SignupRequest{Username: "alice", Password: "longenough", Email: "alice@example.com"},
		},
		{
			name:    "username too short",
			request: SignupRequest{Username: "a", Password: "longenough", Email: "alice@example.com"},
			wantErr: true,
		},
		{
			name:    "username may not contain the mention sigil",
			request: SignupRequest{Username: "al@ce", Password: "longenough", Email: "alice@example.com"},
			wantErr: true,
		},
		{
			name:    "password too short",
			request: SignupRequest{Username: "alice", Password: "short", Email: "alice@example.com"},
			wantErr: true,
		},
		{
			name:    "invalid email",
			request: SignupRequest{Username: "alice", Password: "longenough", Email: "not-an-email"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.request)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
