package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verda-api/verda/internal/platform/db"
	"github.com/verda-api/verda/internal/shared"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	FindByID(ctx context.Context, id string) (*Principal, error)
	Create(ctx context.Context, params CreateParams) (*Principal, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db    dbtx
	pool  *pgxpool.Pool
	newID func() string
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	repo := newRepository(pool)
	repo.pool = pool
	return repo
}

func newRepository(conn dbtx) *PGRepository {
	return &PGRepository{db: conn, newID: uuid.NewString}
}

// WithTx runs fn against a repository bound to a single transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(*PGRepository) error) error {
	if r.pool == nil {
		return errors.New("auth: repository has no pool")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&PGRepository{db: tx, pool: r.pool, newID: r.newID})
	})
}

const principalColumns = `id, name, email, role, created_at, updated_at`

// FindByEmail fetches a principal and its hash by email, compared case-insensitively.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Credential, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+principalColumns+`, password_hash FROM principals WHERE lower(email) = lower($1)`, email)

	var (
		cred Credential
		role string
	)
	err := row.Scan(&cred.ID, &cred.Name, &cred.Email, &role, &cred.CreatedAt, &cred.UpdatedAt, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find principal by email: %w", err)
	}
	if cred.Role, err = shared.ParseRole(role); err != nil {
		return nil, fmt.Errorf("auth: principal %s: %w", cred.ID, err)
	}
	return &cred, nil
}

// FindByID fetches a principal by identifier. The hash is never selected.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*Principal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, shared.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+principalColumns+` FROM principals WHERE id = $1`, id)

	var (
		p    Principal
		role string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsInvalidText(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find principal by id: %w", err)
	}
	var err error
	if p.Role, err = shared.ParseRole(role); err != nil {
		return nil, fmt.Errorf("auth: principal %s: %w", p.ID, err)
	}
	return &p, nil
}

// Create inserts a principal. Uniqueness of the email is enforced by the
// principals_email_lower_key index, so concurrent signups resolve to exactly
// one insert and one ErrDuplicateCredential.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (*Principal, error) {
	role := params.Role
	if role == "" {
		role = shared.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("auth: create principal: invalid role %q", role)
	}

	p := Principal{
		ID:    r.newID(),
		Name:  params.Name,
		Email: params.Email,
		Role:  role,
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO principals (id, name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Email, params.PasswordHash, string(p.Role))
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.Wrap(shared.ErrDuplicateCredential, "auth: create principal", err)
		}
		return nil, fmt.Errorf("auth: create principal: %w", err)
	}
	return &p, nil
}

// SetRole changes a principal's role. It is used by operator tooling only.
func (r *PGRepository) SetRole(ctx context.Context, id string, role shared.Role) error {
	if !role.Valid() {
		return fmt.Errorf("auth: set role: invalid role %q", role)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE principals SET role = $2, updated_at = $3 WHERE id = $1`, id, string(role), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("auth: set role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
