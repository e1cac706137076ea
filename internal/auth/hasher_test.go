package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, h.Verify("correct horse battery staple", hash))
	assert.False(t, h.Verify("correct horse battery stable", hash))
	assert.False(t, h.Verify("", hash))
}

func TestHashIsSaltedPerCall(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("secret-password")
	require.NoError(t, err)
	second, err := h.Hash("secret-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.True(t, h.Verify("secret-password", first))
	assert.True(t, h.Verify("secret-password", second))
}

func TestVerifyMalformedHashFailsClosed(t *testing.T) {
	h := newTestHasher(t)

	assert.False(t, h.Verify("anything", nil))
	assert.False(t, h.Verify("anything", []byte("not-a-bcrypt-hash")))
}

func TestVerifyDummyAlwaysFalse(t *testing.T) {
	h := newTestHasher(t)

	assert.False(t, h.VerifyDummy("innkeep-timing-equalizer"))
	assert.False(t, h.VerifyDummy("anything else"))
}

func TestNewPasswordHasherRejectsBadCost(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)
}
