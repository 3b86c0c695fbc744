package app

import (
	"log/slog"

	"github.com/verda-api/verda/internal/activity"
	"github.com/verda-api/verda/internal/auth"
	"github.com/verda-api/verda/internal/observability"
	"github.com/verda-api/verda/internal/platform/httpx"
	"github.com/verda-api/verda/internal/rbac"
)

// Stores are the persistence dependencies the HTTP layer needs.
type Stores struct {
	Principals auth.Repository
	Logs       activity.Repository
	DB         Pinger
}

// Wire builds services, handlers and the access guard from configuration.
func Wire(cfg *Config, logger *slog.Logger, metrics *observability.Metrics, stores Stores) (RouterParams, error) {
	tokens, err := auth.NewTokens(cfg.TokenConfig())
	if err != nil {
		return RouterParams{}, err
	}
	errs := httpx.NewErrorResponder(logger, cfg.AppDebug)
	hasher := auth.NewHasher(cfg.BcryptCost, cfg.HashWorkers)

	authService := auth.NewService(stores.Principals, hasher, tokens, logger, auth.WithEventRecorder(metrics))
	activityService := activity.NewService(stores.Logs, logger)

	guard := rbac.Guard{
		Tokens:     tokens,
		Principals: stores.Principals,
		Errors:     errs,
		Logger:     logger,
		Events:     metrics,
	}

	return RouterParams{
		Logger:          logger,
		Config:          cfg,
		Errors:          errs,
		AuthHandler:     auth.NewHandler(logger, authService, errs),
		ActivityHandler: activity.NewHandler(logger, activityService, errs),
		Guard:           guard,
		Metrics:         metrics,
		DB:              stores.DB,
	}, nil
}
