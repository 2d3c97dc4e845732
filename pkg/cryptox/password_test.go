package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// Modular crypt format with the configured cost
			require.True(t, strings.HasPrefix(hash, "$2a$10$"),
				"hash should be a bcrypt string at cost 10")
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)

	hash2, err := HashPassword(password)
	require.NoError(t, err)

	hash3, err := HashPassword(password)
	require.NoError(t, err)

	// Each hash should be different due to unique salts
	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.NotEqual(t, hash2, hash3, "hashes should differ due to unique salts")
	require.NotEqual(t, hash1, hash3, "hashes should differ due to unique salts")

	// But all should verify the same password
	require.NoError(t, VerifyPassword(password, hash1))
	require.NoError(t, VerifyPassword(password, hash2))
	require.NoError(t, VerifyPassword(password, hash3))
}

func TestVerifyPassword_Success(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)

			require.NoError(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	correctPassword := "correct-password"
	hash, err := HashPassword(correctPassword)
	require.NoError(t, err)

	tests := []struct {
		name          string
		wrongPassword string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty password", ""},
		{"similar password", "correct-passwor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.wrongPassword, hash)
			require.ErrorIs(t, err, ErrMismatch)
		})
	}
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"not bcrypt", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated", "$2a$10$tooshort"},
		{"garbage", "not-a-hash-at-all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("any-password", tt.invalidHash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrMismatch)
		})
	}
}

func TestPasswordWorkflow_EndToEnd(t *testing.T) {
	// Simulate a registration followed by a login check
	userPassword := "MySecurePassword123!"

	hash, err := HashPassword(userPassword)
	require.NoError(t, err)

	require.NoError(t, VerifyPassword(userPassword, hash),
		"correct password should verify")

	require.Error(t, VerifyPassword("WrongPassword", hash),
		"wrong password should fail")
}
