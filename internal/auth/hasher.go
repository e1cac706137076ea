package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt hashing at a fixed cost. Each Hash call embeds
// a fresh random salt, so hashing the same password twice yields different
// stored values.
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher builds a hasher at the given cost. The dummy hash is
// used by callers to burn an equivalent bcrypt comparison when no stored
// hash exists, keeping unknown-user and wrong-password latency comparable.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("innkeep-timing-equalizer"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash derives a salted one-way hash of the plaintext.
func (h *PasswordHasher) Hash(plaintext string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether plaintext matches the stored hash. Malformed stored
// hashes fail closed rather than erroring.
func (h *PasswordHasher) Verify(plaintext string, hashed []byte) bool {
	return bcrypt.CompareHashAndPassword(hashed, []byte(plaintext)) == nil
}

// VerifyDummy performs a comparison against a throwaway hash. It always
// returns false; it exists so the absent-user branch of a login does the
// same bcrypt work as the present-user branch.
func (h *PasswordHasher) VerifyDummy(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(plaintext))
	return false
}
