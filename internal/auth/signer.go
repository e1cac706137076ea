package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/innkeep/innkeep/internal/identity"
)

// Purpose restricts a token to one functional use. A token verified for one
// purpose is rejected when presented for another.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
	PurposeReset   Purpose = "password-reset"
)

// Claims is the signed token payload.
type Claims struct {
	jwt.RegisteredClaims
	Email   string        `json:"email,omitempty"`
	Role    identity.Role `json:"role,omitempty"`
	Purpose Purpose       `json:"purpose"`
}

// TokenSigner issues and verifies HS256-signed claims. It is stateless; the
// only shared input is the signing secret handed in at construction.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner builds a signer around a symmetric secret.
func NewTokenSigner(secret []byte) *TokenSigner {
	return &TokenSigner{secret: secret}
}

// Issue signs claims for the user with the given purpose and TTL. Every
// token carries a fresh jti so single-use semantics can key off it.
func (s *TokenSigner) Issue(user identity.User, purpose Purpose, ttl time.Duration) (string, Claims, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:   user.Email,
		Role:    user.Role,
		Purpose: purpose,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

// Verify checks signature, expiry, and purpose. The accepted algorithm is
// pinned to HS256 regardless of what the token header announces. Every
// failure collapses to ErrInvalidToken.
func (s *TokenSigner) Verify(tokenString string, expected Purpose) (Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Purpose != expected || claims.Subject == "" || claims.ID == "" {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
