package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/verda-api/verda/internal/auth"
	"github.com/verda-api/verda/internal/platform/httpx"
	"github.com/verda-api/verda/internal/shared"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Guard wires authentication and role checks for HTTP handlers.
type Guard struct {
	Tokens     TokenVerifier
	Principals PrincipalFinder
	Errors     *httpx.ErrorResponder
	Logger     *slog.Logger
	Events     auth.EventRecorder
}

// Authenticate resolves the bearer token into an Identity and stores it in the
// request context. The role comes from the store, not from the token, so a
// promoted or demoted principal is seen with its current role.
func (g Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.resolve(r)
		if err != nil {
			g.record("authenticate", false)
			g.responder().Respond(w, r, err)
			return
		}
		g.record("authenticate", true)
		ctx := shared.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize admits callers whose role is in allowed. It must run after
// Authenticate; a request without an identity is rejected as unauthenticated.
func (g Guard) Authorize(allowed shared.RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				g.record("authorize", false)
				g.responder().Respond(w, r, shared.Wrap(shared.ErrUnauthenticated, "rbac: authorize", nil))
				return
			}
			if !allowed.Contains(identity.Role) {
				g.record("authorize", false)
				g.responder().Respond(w, r, &shared.Error{
					Kind:   shared.ErrUnauthorized,
					Op:     "rbac: authorize",
					Detail: "role " + string(identity.Role) + " is not allowed",
				})
				return
			}
			g.record("authorize", true)
			next.ServeHTTP(w, r)
		})
	}
}

func (g Guard) resolve(r *http.Request) (shared.Identity, error) {
	const op = "rbac: authenticate"

	raw, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return shared.Identity{}, shared.Wrap(shared.ErrUnauthenticated, op, err)
	}
	claims, err := g.Tokens.Verify(raw)
	if err != nil {
		return shared.Identity{}, shared.Wrap(shared.ErrUnauthenticated, op, err)
	}
	principal, err := g.Principals.FindByID(r.Context(), claims.PrincipalID())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Identity{}, shared.Wrap(shared.ErrUnauthenticated, op, errors.New("principal no longer exists"))
		}
		return shared.Identity{}, err
	}
	return shared.Identity{PrincipalID: principal.ID, Role: principal.Role}, nil
}

func (g Guard) responder() *httpx.ErrorResponder {
	if g.Errors != nil {
		return g.Errors
	}
	return httpx.NewErrorResponder(g.Logger, false)
}

func (g Guard) record(event string, ok bool) {
	if g.Events == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	g.Events.RecordAuthEvent(event, outcome)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if len(header) < len(bearer) || !strings.EqualFold(header[:len(bearer)], bearer) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
