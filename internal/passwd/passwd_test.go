package passwd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		salt, err := GenerateSalt()
		require.NoError(t, err)
		assert.Len(t, salt, saltLength)
		for _, c := range salt {
			assert.Contains(t, saltAlphabet, string(c))
		}
		assert.False(t, seen[salt], "salt repeated: %s", salt)
		seen[salt] = true
	}
}

func TestDeriveHash_Deterministic(t *testing.T) {
	h1 := DeriveHash("Secret1", "aaaaaaaaaaaaaaaa")
	h2 := DeriveHash("Secret1", "aaaaaaaaaaaaaaaa")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, keyLength*2) // hex doubles the byte length
}

func TestDeriveHash_SaltChangesDigest(t *testing.T) {
	h1 := DeriveHash("Secret1", "aaaaaaaaaaaaaaaa")
	h2 := DeriveHash("Secret1", "bbbbbbbbbbbbbbbb")
	assert.NotEqual(t, h1, h2)
}

func TestVerify(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	digest := DeriveHash("Secret1", salt)

	assert.True(t, Verify("Secret1", salt, digest))
	assert.False(t, Verify("secret1", salt, digest))
	assert.False(t, Verify("", salt, digest))
}
