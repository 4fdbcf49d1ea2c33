package auth

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret1" || hash == "" {
		t.Fatalf("hash must differ from the raw password, got %q", hash)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if !h.Verify(ctx, "secret1", hash) {
		t.Fatalf("Verify should accept the original password")
	}
	if h.Verify(ctx, "wrong", hash) {
		t.Fatalf("Verify should reject a wrong password")
	}
}

func TestPasswordHasher_HashesAreSalted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()

	h1, err := h.Hash(ctx, "same-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := h.Hash(ctx, "same-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ (salt)")
	}
}

func TestNewPasswordHasher_CoercesBadInputs(t *testing.T) {
	// Out-of-range cost falls back to the default; maxConcurrent < 1 is
	// coerced to 1, so hashing still works.
	h := NewPasswordHasher(99, 0)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
	if _, err := h.Hash(context.Background(), "x"); err != nil {
		t.Fatalf("Hash with coerced settings: %v", err)
	}
}

func TestPasswordHasher_HashHonorsContext(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The semaphore acquire must observe the canceled context.
	// (The single slot is free, but Acquire still checks ctx first.)
	if _, err := h.Hash(ctx, "x"); err == nil {
		t.Fatalf("expected error from canceled context")
	}
	if h.Verify(ctx, "x", "$2a$04$invalid") {
		t.Fatalf("Verify must fail under a canceled context")
	}
}
