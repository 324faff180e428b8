package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.NotEqual(t, "correct horse battery staple", digest)
	assert.True(t, VerifyPassword("correct horse battery staple", digest))
	assert.False(t, VerifyPassword("wrong password", digest))
	assert.False(t, VerifyPassword("", digest))
}

func TestVerifyPasswordBadDigest(t *testing.T) {
	// A malformed digest must read as a mismatch, not a crash.
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-digest"))
	assert.False(t, VerifyPassword("anything", ""))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("password123")
	require.NoError(t, err)
	second, err := HashPassword("password123")
	require.NoError(t, err)

	// Same plaintext, different salts.
	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword("password123", first))
	assert.True(t, VerifyPassword("password123", second))
}
