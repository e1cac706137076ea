package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestUser(email string) User {
	now := time.Now().UTC()
	return User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Test User",
		Role:         RoleCustomer,
		PasswordHash: []byte("$2a$10$fakefakefakefakefakefake"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMemoryRepositoryConcurrentDuplicateCreate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, newTestUser("race@x.com"))
		}(i)
	}
	wg.Wait()

	var succeeded, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrDuplicateEmail):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful create, got %d", succeeded)
	}
	if duplicates != attempts-1 {
		t.Fatalf("expected %d duplicate errors, got %d", attempts-1, duplicates)
	}
}

func TestMemoryRepositoryEmailNormalization(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestUser("  Ann@Example.COM "))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Email != "ann@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}

	found, err := repo.FindByEmail(ctx, "ANN@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("lookup returned wrong user")
	}

	if _, err := repo.Create(ctx, newTestUser("ann@EXAMPLE.com")); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestMemoryRepositoryUpdatePassword(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestUser("a@x.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdatePassword(ctx, created.ID, []byte("new-hash")); err != nil {
		t.Fatalf("update password: %v", err)
	}
	stored, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if string(stored.PasswordHash) != "new-hash" {
		t.Fatalf("password hash not updated")
	}

	if err := repo.UpdatePassword(ctx, uuid.NewString(), []byte("x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepositoryUpdateProfile(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestUser("a@x.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Renamed"
	updated, err := repo.UpdateProfile(ctx, created.ID, ProfilePatch{Name: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected name update, got %q", updated.Name)
	}
	if updated.Phone != created.Phone {
		t.Fatalf("phone should be unchanged")
	}

	if _, err := repo.UpdateProfile(ctx, uuid.NewString(), ProfilePatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"", RoleCustomer, false},
		{"customer", RoleCustomer, false},
		{"ORG_ADMIN", RoleOrgAdmin, false},
		{" system_admin ", RoleSystemAdmin, false},
		{"WIZARD", "", true},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownRole) {
				t.Fatalf("ParseRole(%q): expected ErrUnknownRole, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
