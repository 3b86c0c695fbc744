package auth_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/verda-api/verda/internal/auth"
	"github.com/verda-api/verda/internal/shared"
	_ "github.com/verda-api/verda/testing"
)

// memoryRepo mimics the unique email index with a mutex.
type memoryRepo struct {
	mu      sync.Mutex
	byEmail map[string]*auth.Credential
	seq     int
	now     time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: map[string]*auth.Credential{}, now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memoryRepo) FindByEmail(_ context.Context, email string) (*auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *cred
	return &cp, nil
}

func (m *memoryRepo) FindByID(_ context.Context, id string) (*auth.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cred := range m.byEmail {
		if cred.ID == id {
			p := cred.Principal
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) Create(_ context.Context, params auth.CreateParams) (*auth.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[params.Email]; exists {
		return nil, shared.Wrap(shared.ErrDuplicateCredential, "memory: create", nil)
	}
	m.seq++
	role := params.Role
	if role == "" {
		role = shared.RoleUser
	}
	cred := &auth.Credential{
		Principal: auth.Principal{
			ID:        "principal-" + strconv.Itoa(m.seq),
			Name:      params.Name,
			Email:     params.Email,
			Role:      role,
			CreatedAt: m.now,
			UpdatedAt: m.now,
		},
		PasswordHash: params.PasswordHash,
	}
	m.byEmail[params.Email] = cred
	p := cred.Principal
	return &p, nil
}

func (m *memoryRepo) setRole(email string, role shared.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail[email].Role = role
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byEmail)
}

type eventLog struct {
	mu     sync.Mutex
	events map[string]int
}

func (e *eventLog) RecordAuthEvent(event, outcome string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.events == nil {
		e.events = map[string]int{}
	}
	e.events[event+"/"+outcome]++
}

func (e *eventLog) get(key string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events[key]
}

type fixture struct {
	repo    *memoryRepo
	tokens  *auth.Tokens
	events  *eventLog
	service *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tokens, err := auth.NewTokens(&auth.TokenConfig{Secret: []byte("fixture-secret"), TTL: time.Hour})
	require.NoError(t, err)
	repo := newMemoryRepo()
	events := &eventLog{}
	svc := auth.NewService(repo, auth.NewHasher(bcrypt.MinCost, 4), tokens, nil, auth.WithEventRecorder(events))
	return &fixture{repo: repo, tokens: tokens, events: events, service: svc}
}
