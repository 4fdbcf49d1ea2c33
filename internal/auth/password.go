// Package auth implements the credential and token primitives of the
// platform: slow salted password hashing and signed, time-limited bearer
// tokens. Nothing in this package touches the database.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher wraps bcrypt with a tunable cost factor and a bound on the
// number of hash computations running at once. Bcrypt is deliberately
// CPU-expensive; the semaphore keeps a burst of login or registration
// requests from starving the rest of the process.
//
// The zero value is not usable; construct with NewPasswordHasher.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordHasher returns a hasher using the given bcrypt cost and allowing
// at most maxConcurrent simultaneous hash/verify computations. A cost outside
// bcrypt's valid range falls back to bcrypt.DefaultCost; maxConcurrent < 1 is
// coerced to 1.
func NewPasswordHasher(cost, maxConcurrent int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &PasswordHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Hash derives a salted bcrypt hash from password. The raw password is never
// stored or logged anywhere; callers persist only the returned hash.
//
// Hash blocks while the concurrency budget is exhausted and honors ctx
// cancellation during that wait.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches the stored bcrypt hash. The
// comparison is performed by bcrypt itself and does not leak timing
// information about the stored hash.
func (h *PasswordHasher) Verify(ctx context.Context, password, hash string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
