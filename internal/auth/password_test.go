package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio/internal/auth"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	hashed, err := auth.HashPassword("pw123")
	require.NoError(t, err)
	require.NotEqual(t, "pw123", hashed)

	require.True(t, auth.VerifyPassword("pw123", hashed))
	require.False(t, auth.VerifyPassword("pw124", hashed))
	require.False(t, auth.VerifyPassword("", hashed))
}

func TestHashSaltsDiffer(t *testing.T) {
	first, err := auth.HashPassword("same-password")
	require.NoError(t, err)
	second, err := auth.HashPassword("same-password")
	require.NoError(t, err)

	// The embedded salt makes equal plaintexts hash differently.
	require.NotEqual(t, first, second)
	require.True(t, auth.VerifyPassword("same-password", first))
	require.True(t, auth.VerifyPassword("same-password", second))
}

func TestVerifyGarbageHash(t *testing.T) {
	// A malformed stored hash is a mismatch, not a panic.
	require.False(t, auth.VerifyPassword("pw123", "not-a-bcrypt-hash"))
}
