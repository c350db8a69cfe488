package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	digest, err := HashPassword("abcdefgh")
	require.NoError(t, err)

	assert.NotEqual(t, "abcdefgh", digest)
	assert.True(t, CheckPassword("abcdefgh", digest))
	assert.False(t, CheckPassword("abcdefgx", digest))
	assert.False(t, CheckPassword("", digest))
}

func TestHashPasswordSelfDescribing(t *testing.T) {
	digest, err := HashPassword("abcdefgh")
	require.NoError(t, err)

	// bcrypt 前缀携带算法版本和 cost，便于将来 rehash 迁移
	assert.True(t, strings.HasPrefix(digest, "$2"))
}

func TestHashPasswordSalted(t *testing.T) {
	d1, err := HashPassword("abcdefgh")
	require.NoError(t, err)
	d2, err := HashPassword("abcdefgh")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}
