package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, pw := range []string{"password1", "ünïcødé-pässwörd", "12345678"} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash)
		assert.True(t, h.Verify(hash, pw))
		assert.False(t, h.Verify(hash, pw+"x"))
		assert.False(t, h.Verify(hash, ""))
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	a, _ := h.Hash("password1")
	b, _ := h.Hash("password1")
	assert.NotEqual(t, a, b)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestBcryptHasher_GarbageHash(t *testing.T) {
	assert.False(t, NewBcryptHasher(bcrypt.MinCost).Verify("not-a-hash", "password1"))
}
