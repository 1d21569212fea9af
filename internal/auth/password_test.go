package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("longenough")
	require.NoError(t, err)
	second, err := HashPassword("longenough")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash must carry a fresh salt")
	assert.True(t, CheckPassword("longenough", first))
	assert.True(t, CheckPassword("longenough", second))
}

func TestCheckPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.False(t, CheckPassword("battery staple", hash))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("anything", ""))
}
