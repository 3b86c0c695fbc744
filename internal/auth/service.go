package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verda-api/verda/internal/shared"
)

// MaxPasswordLength is the longest password bcrypt can fully hash.
const MaxPasswordLength = 72

// EventRecorder counts auth outcomes. *observability.Metrics satisfies it.
type EventRecorder interface {
	RecordAuthEvent(event, outcome string)
}

// SignupInput is the registration payload.
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var credentialMessages = shared.FieldMessages{
	"Name":              "Name is required",
	"Email":             "Please provide a valid email address",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 6 characters long",
	"Password.max":      "Password must be at most 72 characters long",
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithEventRecorder attaches a metrics sink for signup and login outcomes.
func WithEventRecorder(rec EventRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.events = rec
		}
	}
}

// Service wraps credential registration and login.
type Service struct {
	repo      Repository
	hasher    PasswordHasher
	tokens    *Tokens
	logger    *slog.Logger
	validator *validator.Validate
	events    EventRecorder
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher PasswordHasher, tokens *Tokens, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		validator: shared.NewValidator(),
		events:    noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a new principal with the default role. The password is
// hashed before anything is stored and the plaintext is never logged.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Principal, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := shared.ValidateStruct(s.validator, in, credentialMessages); err != nil {
		s.events.RecordAuthEvent("signup", "failure")
		return nil, err
	}
	if len(in.Password) > MaxPasswordLength {
		s.events.RecordAuthEvent("signup", "failure")
		return nil, shared.NewValidationError(credentialMessages["Password.max"])
	}

	// Fast path only. The unique index decides races between concurrent signups.
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		s.events.RecordAuthEvent("signup", "failure")
		return nil, shared.ErrDuplicateCredential
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	principal, err := s.repo.Create(ctx, CreateParams{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         shared.RoleUser,
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateCredential) {
			s.events.RecordAuthEvent("signup", "failure")
		}
		return nil, err
	}
	s.events.RecordAuthEvent("signup", "success")
	s.logger.InfoContext(ctx, "principal registered", slog.String("principal_id", principal.ID))
	return principal, nil
}

// Login exchanges an email and password for a session token. Unknown email
// and wrong password fail with the same error after the same amount of work.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := shared.ValidateStruct(s.validator, in, credentialMessages); err != nil {
		s.events.RecordAuthEvent("login", "failure")
		return nil, err
	}

	cred, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.hasher.VerifyDummy(ctx, in.Password)
			s.events.RecordAuthEvent("login", "failure")
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, in.Password, cred.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.events.RecordAuthEvent("login", "failure")
		return nil, shared.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(cred.ID, cred.Role)
	if err != nil {
		return nil, err
	}
	s.events.RecordAuthEvent("login", "success")
	s.logger.InfoContext(ctx, "principal logged in", slog.String("principal_id", cred.ID))
	return &Session{Token: token.Value, ExpiresAt: token.ExpiresAt, Principal: cred.Principal}, nil
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string, string) {}
