// Package rbac guards HTTP routes with bearer-token authentication and
// role-set authorization.
package rbac

import (
	"context"

	"github.com/verda-api/verda/internal/auth"
)

// TokenVerifier checks a bearer token. *auth.Tokens satisfies it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// PrincipalFinder loads the principal named by a token. auth.Repository satisfies it.
type PrincipalFinder interface {
	FindByID(ctx context.Context, id string) (*auth.Principal, error)
}

var (
	_ TokenVerifier   = (*auth.Tokens)(nil)
	_ PrincipalFinder = (auth.Repository)(nil)
)
