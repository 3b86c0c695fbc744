package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verda-api/verda/internal/platform/db"
	"github.com/verda-api/verda/internal/shared"
)

// Repository persists activity logs.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, log Log) (*Log, error)
	Lock(ctx context.Context, id string) (*Log, error)
	ListByPrincipal(ctx context.Context, principalID string) ([]Log, error)
	ListAll(ctx context.Context) ([]Log, error)
	Update(ctx context.Context, log Log) error
	Delete(ctx context.Context, id string) error
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db    dbtx
	pool  *pgxpool.Pool
	newID func() string
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool, newID: uuid.NewString}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if r.pool == nil {
		return errors.New("activity: repository has no pool")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool, newID: r.newID})
	})
}

const logColumns = `id, principal_id, category, amount, unit, recorded_at`

func (r *repository) Create(ctx context.Context, log Log) (*Log, error) {
	if log.Unit == "" {
		log.Unit = DefaultUnit
	}
	log.ID = r.newID()
	row := r.db.QueryRow(ctx,
		`INSERT INTO activity_logs (id, principal_id, category, amount, unit)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING recorded_at`,
		log.ID, log.PrincipalID, log.Category, log.Amount, log.Unit)
	if err := row.Scan(&log.RecordedAt); err != nil {
		return nil, fmt.Errorf("activity: create log: %w", err)
	}
	return &log, nil
}

// Lock selects a log FOR UPDATE. Outside a transaction the lock is released
// immediately, so callers use it from WithTx.
func (r *repository) Lock(ctx context.Context, id string) (*Log, error) {
	rows, err := r.db.Query(ctx, `SELECT `+logColumns+` FROM activity_logs WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("activity: lock log: %w", err)
	}
	log, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Log])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsInvalidText(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("activity: lock log: %w", err)
	}
	return &log, nil
}

func (r *repository) ListByPrincipal(ctx context.Context, principalID string) ([]Log, error) {
	return r.list(ctx,
		`SELECT `+logColumns+` FROM activity_logs WHERE principal_id = $1 ORDER BY recorded_at DESC, id`,
		principalID)
}

func (r *repository) ListAll(ctx context.Context) ([]Log, error) {
	return r.list(ctx, `SELECT `+logColumns+` FROM activity_logs ORDER BY recorded_at DESC, id`)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Log, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("activity: list logs: %w", err)
	}
	logs, err := pgx.CollectRows(rows, pgx.RowToStructByName[Log])
	if err != nil {
		return nil, fmt.Errorf("activity: list logs: %w", err)
	}
	if logs == nil {
		logs = []Log{}
	}
	return logs, nil
}

func (r *repository) Update(ctx context.Context, log Log) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE activity_logs SET category = $2, amount = $3 WHERE id = $1`,
		log.ID, log.Category, log.Amount)
	if err != nil {
		return fmt.Errorf("activity: update log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM activity_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activity: delete log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
