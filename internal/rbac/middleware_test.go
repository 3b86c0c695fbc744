package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verda-api/verda/internal/auth"
	"github.com/verda-api/verda/internal/platform/httpx"
	"github.com/verda-api/verda/internal/shared"
)

type principalMap map[string]*auth.Principal

func (m principalMap) FindByID(_ context.Context, id string) (*auth.Principal, error) {
	p, ok := m[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type failingFinder struct{}

func (failingFinder) FindByID(context.Context, string) (*auth.Principal, error) {
	return nil, errors.New("connection reset")
}

type counter map[string]int

func (c counter) RecordAuthEvent(event, outcome string) { c[event+"/"+outcome]++ }

type guardFixture struct {
	guard  Guard
	tokens *auth.Tokens
	people principalMap
	events counter
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	tokens, err := auth.NewTokens(&auth.TokenConfig{Secret: []byte("guard-secret"), TTL: time.Hour})
	require.NoError(t, err)
	people := principalMap{
		"user-1":  {ID: "user-1", Name: "Ann", Email: "ann@example.com", Role: shared.RoleUser},
		"admin-1": {ID: "admin-1", Name: "Root", Email: "root@example.com", Role: shared.RoleAdmin},
	}
	events := counter{}
	return &guardFixture{
		guard: Guard{
			Tokens:     tokens,
			Principals: people,
			Errors:     httpx.NewErrorResponder(nil, false),
			Events:     events,
		},
		tokens: tokens,
		people: people,
		events: events,
	}
}

func (f *guardFixture) bearer(t *testing.T, id string, role shared.Role) string {
	t.Helper()
	tok, err := f.tokens.Issue(id, role)
	require.NoError(t, err)
	return "Bearer " + tok.Value
}

var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "no identity", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"id": id.PrincipalID, "role": string(id.Role)})
})

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func message(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Message
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	f := newGuardFixture(t)
	rr := serve(f.guard.Authenticate(echoIdentity), f.bearer(t, "user-1", shared.RoleUser))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"user-1","role":"user"}`, rr.Body.String())
	assert.Equal(t, 1, f.events["authenticate/success"])
}

func TestAuthenticateUsesStoredRole(t *testing.T) {
	f := newGuardFixture(t)
	header := f.bearer(t, "user-1", shared.RoleUser)
	f.people["user-1"].Role = shared.RoleAdmin

	rr := serve(f.guard.Authenticate(echoIdentity), header)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"user-1","role":"admin"}`, rr.Body.String())
}

func TestAuthenticateRejections(t *testing.T) {
	f := newGuardFixture(t)
	valid := f.bearer(t, "user-1", shared.RoleUser)
	ghost := f.bearer(t, "deleted-1", shared.RoleUser)

	cases := map[string]string{
		"missing header":    "",
		"wrong scheme":      "Basic dXNlcjpwYXNz",
		"empty token":       "Bearer ",
		"garbage token":     "Bearer not.a.token",
		"tampered token":    valid + "x",
		"deleted principal": ghost,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rr := serve(f.guard.Authenticate(echoIdentity), header)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, httpx.MsgUnauthenticated, message(t, rr))
		})
	}
	assert.Equal(t, len(cases), f.events["authenticate/failure"])
}

func TestAuthenticateSchemeIsCaseInsensitive(t *testing.T) {
	f := newGuardFixture(t)
	tok, err := f.tokens.Issue("user-1", shared.RoleUser)
	require.NoError(t, err)
	rr := serve(f.guard.Authenticate(echoIdentity), "bearer "+tok.Value)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthenticateStoreFailureIsInternal(t *testing.T) {
	f := newGuardFixture(t)
	f.guard.Principals = failingFinder{}
	rr := serve(f.guard.Authenticate(echoIdentity), f.bearer(t, "user-1", shared.RoleUser))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, httpx.MsgInternal, message(t, rr))
}

func TestAuthorizeAdminOnly(t *testing.T) {
	f := newGuardFixture(t)
	chain := f.guard.Authenticate(f.guard.Authorize(shared.AdminOnly)(echoIdentity))

	rr := serve(chain, f.bearer(t, "user-1", shared.RoleUser))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, httpx.MsgUnauthorized, message(t, rr))

	rr = serve(chain, f.bearer(t, "admin-1", shared.RoleAdmin))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(chain, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	assert.Equal(t, 1, f.events["authorize/failure"])
	assert.Equal(t, 1, f.events["authorize/success"])
}

func TestAuthorizeAnyRole(t *testing.T) {
	f := newGuardFixture(t)
	chain := f.guard.Authenticate(f.guard.Authorize(shared.AnyRole)(echoIdentity))
	assert.Equal(t, http.StatusOK, serve(chain, f.bearer(t, "user-1", shared.RoleUser)).Code)
	assert.Equal(t, http.StatusOK, serve(chain, f.bearer(t, "admin-1", shared.RoleAdmin)).Code)
}

func TestAuthorizeWithoutAuthenticate(t *testing.T) {
	f := newGuardFixture(t)
	rr := serve(f.guard.Authorize(shared.AnyRole)(echoIdentity), "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := extractBearerToken("  Bearer abc.def.ghi ")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, header := range []string{"", "Bearer", "Bearer    ", "Token abc", "Bearerabc"} {
		_, err := extractBearerToken(header)
		assert.Error(t, err, header)
	}
}
