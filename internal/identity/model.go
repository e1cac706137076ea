package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownRole rejects role values outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// Role tags a user with one of the platform's closed set of roles.
type Role string

const (
	RoleCustomer    Role = "CUSTOMER"
	RoleOrgAdmin    Role = "ORG_ADMIN"
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
)

// ParseRole validates a role string, defaulting empty input to CUSTOMER.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return RoleCustomer, nil
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleOrgAdmin:
		return RoleOrgAdmin, nil
	case RoleSystemAdmin:
		return RoleSystemAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// User is a registered account. PasswordHash never leaves the identity/auth
// boundary and is excluded from serialization.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfilePatch carries the mutable profile fields for UpdateProfile.
// Nil fields are left unchanged.
type ProfilePatch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// NormalizeEmail lowercases and trims an address so lookups and the unique
// constraint agree on a canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
