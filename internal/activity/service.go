package activity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/verda-api/verda/internal/shared"
)

// Service applies ownership and validation rules to activity logs.
type Service struct {
	repo      Repository
	logger    *slog.Logger
	validator *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, validator: shared.NewValidator()}
}

// Create records a log owned by the caller.
func (s *Service) Create(ctx context.Context, caller shared.Identity, req CreateLogRequest) (*Log, error) {
	req.Category = strings.TrimSpace(req.Category)
	if err := shared.ValidateStruct(s.validator, req, createMessages); err != nil {
		return nil, err
	}
	log, err := s.repo.Create(ctx, Log{
		PrincipalID: caller.PrincipalID,
		Category:    req.Category,
		Amount:      *req.Amount,
		Unit:        DefaultUnit,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "activity log created",
		slog.String("log_id", log.ID), slog.String("principal_id", caller.PrincipalID))
	return log, nil
}

// ListMine returns the caller's logs, newest first.
func (s *Service) ListMine(ctx context.Context, caller shared.Identity) ([]Log, error) {
	return s.repo.ListByPrincipal(ctx, caller.PrincipalID)
}

// ListAll returns every log, newest first. Routes restrict it to admins.
func (s *Service) ListAll(ctx context.Context) ([]Log, error) {
	return s.repo.ListAll(ctx)
}

// Update patches category and amount. Only the owner or an admin may update;
// anyone else sees the log as missing.
func (s *Service) Update(ctx context.Context, caller shared.Identity, id string, req UpdateLogRequest) (*Log, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if req.Category != nil {
		trimmed := strings.TrimSpace(*req.Category)
		req.Category = &trimmed
	}
	if err := shared.ValidateStruct(s.validator, req, updateMessages); err != nil {
		return nil, err
	}

	var updated *Log
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		current, err := ownedLog(ctx, repo, caller, id)
		if err != nil {
			return err
		}
		if req.Category != nil {
			current.Category = *req.Category
		}
		if req.Amount != nil {
			current.Amount = *req.Amount
		}
		if err := repo.Update(ctx, *current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a log under the same ownership rule as Update.
func (s *Service) Delete(ctx context.Context, caller shared.Identity, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := ownedLog(ctx, repo, caller, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "activity log deleted",
		slog.String("log_id", id), slog.String("principal_id", caller.PrincipalID))
	return nil
}

func ownedLog(ctx context.Context, repo Repository, caller shared.Identity, id string) (*Log, error) {
	log, err := repo.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.PrincipalID != caller.PrincipalID && caller.Role != shared.RoleAdmin {
		return nil, shared.ErrNotFound
	}
	return log, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return shared.NewValidationError(msgInvalidLogID)
	}
	return nil
}
