package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innkeep/innkeep/internal/identity"
)

var signerTestUser = identity.User{
	ID:    "8c2f0e2e-3f44-4a20-9dd0-0f2b43c2d001",
	Email: "ann@example.com",
	Role:  identity.RoleCustomer,
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	s := NewTokenSigner([]byte("test-secret"))

	token, issued, err := s.Issue(signerTestUser, PurposeAccess, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, issued.ID)

	claims, err := s.Verify(token, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, signerTestUser.ID, claims.Subject)
	assert.Equal(t, signerTestUser.Email, claims.Email)
	assert.Equal(t, identity.RoleCustomer, claims.Role)
	assert.Equal(t, PurposeAccess, claims.Purpose)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestVerifyExpiredToken(t *testing.T) {
	s := NewTokenSigner([]byte("test-secret"))

	token, _, err := s.Issue(signerTestUser, PurposeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = s.Verify(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongPurpose(t *testing.T) {
	s := NewTokenSigner([]byte("test-secret"))

	access, _, err := s.Issue(signerTestUser, PurposeAccess, time.Minute)
	require.NoError(t, err)
	reset, _, err := s.Issue(signerTestUser, PurposeReset, time.Minute)
	require.NoError(t, err)

	_, err = s.Verify(access, PurposeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.Verify(reset, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.Verify(access, PurposeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	s := NewTokenSigner([]byte("test-secret"))
	other := NewTokenSigner([]byte("other-secret"))

	token, _, err := s.Issue(signerTestUser, PurposeAccess, time.Minute)
	require.NoError(t, err)

	_, err = other.Verify(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	s := NewTokenSigner([]byte("test-secret"))

	token, _, err := s.Issue(signerTestUser, PurposeAccess, time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = s.Verify(tampered, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	s := NewTokenSigner([]byte("test-secret"))

	// A token whose header claims alg=none must not pass even with an empty
	// signature; the verifier pins HS256.
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(`{"sub":"` + signerTestUser.ID + `","purpose":"access","exp":` +
		"9999999999" + `}`))
	forged := header + "." + payload + "."

	_, err := s.Verify(forged, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	s := NewTokenSigner([]byte("test-secret"))

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := s.Verify(bad, PurposeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", bad)
	}
}
