package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	for _, raw := range []string{"", "Admin", "business user", "owner"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, raw)
	}
}

func TestRoleSetMembership(t *testing.T) {
	assert.True(t, AdminOnly.Contains(RoleAdmin))
	assert.False(t, AdminOnly.Contains(RoleUser))
	assert.True(t, AnyRole.Contains(RoleUser))
	assert.True(t, AnyRole.Contains(RoleAdmin))
	assert.False(t, AnyRole.Contains(Role("root")))
	assert.False(t, RoleSet(0).Contains(RoleUser))
	assert.Equal(t, []Role{RoleUser, RoleAdmin}, AnyRole.Roles())
	assert.Equal(t, RoleSet(0), Role("root").Set())
}

func TestValidationErrorIsErrValidation(t *testing.T) {
	err := fmt.Errorf("signup: %w", NewValidationError("Name is required", "Please provide a valid email address"))
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Name is required. Please provide a valid email address", verr.Error())
}

func TestWrapKeepsKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrUnauthenticated, "guard", cause)

	assert.True(t, errors.Is(err, ErrUnauthenticated))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "guard: unauthenticated: connection reset", err.Error())
	assert.Nil(t, Wrap(nil, "noop", nil))
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithIdentity(context.Background(), Identity{PrincipalID: "p-1", Role: RoleAdmin})
	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "p-1", id.PrincipalID)
	assert.Equal(t, RoleAdmin, id.Role)
}
