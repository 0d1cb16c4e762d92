package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, salt, err := HashPassword("Abcd123!")
	require.NoError(t, err)
	assert.NotEmpty(t, salt)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	match, err := CheckPasswordHash("Abcd123!", hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestCheckPasswordHash_WrongPassword(t *testing.T) {
	hash, _, err := HashPassword("Abcd123!")
	require.NoError(t, err)

	match, err := CheckPasswordHash("wrong-password", hash)
	require.NoError(t, err, "mismatch must not be an error")
	assert.False(t, match)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, salt1, err := HashPassword("Abcd123!")
	require.NoError(t, err)
	hash2, salt2, err := HashPassword("Abcd123!")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plaintext"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"bad version", "$argon2id$v=12$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"bad params", "$argon2id$v=19$m=65536,t=1$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CheckPasswordHash("Abcd123!", tc.hash)
			assert.Error(t, err)
		})
	}
}

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		strong   bool
	}{
		{"Abcd123!", true},
		{"a1!", true}, // length bounds are the caller's job
		{"abcdefgh", false},
		{"abcd1234", false},
		{"abcd!!!!", false},
		{"1234!!!!", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.strong, IsStrongPassword(tc.password), "password %q", tc.password)
	}
}
