package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	digest, err := h.Hash(ctx, "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)

	ok, err := h.Verify(ctx, "secret1", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, "secret2", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasherSaltsEveryDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)
	a, err := h.Hash(context.Background(), "secret1")
	require.NoError(t, err)
	b, err := h.Hash(context.Background(), "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasherRejectsEmptyInputs(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)

	_, err := h.Hash(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = h.Verify(context.Background(), "secret1", "")
	assert.Error(t, err)

	_, err = h.Verify(context.Background(), "secret1", "not-a-bcrypt-digest")
	assert.Error(t, err)
}

func TestHasherCostFallback(t *testing.T) {
	assert.Equal(t, DefaultHashCost, NewHasher(0, 1).Cost())
	assert.Equal(t, DefaultHashCost, NewHasher(bcrypt.MaxCost+1, 1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost, 1).Cost())
}

func TestHasherReturnsWhenContextEndsWhileQueued(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Hash(ctx, "secret1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	_, err = h.Verify(ctx, "secret1", "$2a$04$abcdefghijklmnopqrstuu")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestHasherVerifyDummy(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)
	h.VerifyDummy(context.Background(), "anything")
	require.NotEmpty(t, h.dummyDigest)

	first := string(h.dummyDigest)
	h.VerifyDummy(context.Background(), "anything else")
	assert.Equal(t, first, string(h.dummyDigest))
}
