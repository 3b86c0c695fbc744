package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultHashCost is the bcrypt work factor used when none is configured.
const DefaultHashCost = 12

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("auth: password is empty")

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
	VerifyDummy(ctx context.Context, plaintext string)
}

// Hasher runs bcrypt on a bounded pool so CPU-heavy hashing never starves
// unrelated requests.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted

	dummyOnce   sync.Once
	dummyDigest []byte
}

// NewHasher builds a Hasher. A cost outside bcrypt's range falls back to
// DefaultHashCost and workers <= 0 means GOMAXPROCS.
func NewHasher(cost, workers int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}
}

// Cost reports the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt digest of plaintext.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	var digest []byte
	err := h.run(ctx, func() error {
		var err error
		digest, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Comparison is constant time.
// A malformed digest is an error, a mismatch is not.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	if digest == "" {
		return false, errors.New("auth: password hash is empty")
	}
	var cmpErr error
	err := h.run(ctx, func() error {
		cmpErr = bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("auth: verify password: %w", err)
	}
	switch {
	case cmpErr == nil:
		return true, nil
	case errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("auth: verify password: %w", cmpErr)
	}
}

// VerifyDummy spends one verification against a fixed digest. Login calls it
// for unknown emails so both failure paths cost the same.
func (h *Hasher) VerifyDummy(ctx context.Context, plaintext string) {
	h.dummyOnce.Do(func() {
		h.dummyDigest, _ = bcrypt.GenerateFromPassword([]byte("verda-dummy-password"), h.cost)
	})
	_ = h.run(ctx, func() error {
		_ = bcrypt.CompareHashAndPassword(h.dummyDigest, []byte(plaintext))
		return nil
	})
}

// run executes fn once a worker permit is available. If ctx ends first the
// caller returns immediately; a computation already started finishes in the
// background and releases its permit.
func (h *Hasher) run(ctx context.Context, fn func() error) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		defer h.sem.Release(1)
		done <- fn()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ PasswordHasher = (*Hasher)(nil)
