package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

const identityColumns = `id, username, email, secret_hash, first_name, last_name, phone, roles, created_at, updated_at`

// IdentityRepository implements ports.IdentityRepository backed by PostgreSQL.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) ports.IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// Create inserts the identity; the BIGSERIAL column assigns the ID.
func (r *IdentityRepository) Create(ctx context.Context, i *domain.Identity) (*domain.Identity, error) {
	const insertSQL = `
		INSERT INTO identities (username, email, secret_hash, first_name, last_name, phone, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + identityColumns

	created, err := scanIdentity(r.pool.QueryRow(ctx, insertSQL,
		i.Username, i.Email, i.SecretHash, i.FirstName, i.LastName, i.Phone, i.Roles.Strings(), i.CreatedAt, i.UpdatedAt))
	if err != nil {
		if constraint, ok := constraintError(err, codeUniqueViolation); ok {
			if constraint == "identities_email_key" {
				return nil, domain.ErrEmailTaken
			}
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("postgres: create identity: %w", classify(err))
	}
	return created, nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Identity, error) {
	return r.findOne(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.findOne(ctx, `SELECT `+identityColumns+` FROM identities WHERE username = $1`, username)
}

func (r *IdentityRepository) findOne(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	i, err := scanIdentity(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: find identity: %w", classify(err))
	}
	return i, nil
}

func (r *IdentityRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE username = $1)`, username)
}

func (r *IdentityRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE email = $1)`, email)
}

func (r *IdentityRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("postgres: identity exists: %w", classify(err))
	}
	return ok, nil
}

func (r *IdentityRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM identities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count identities: %w", classify(err))
	}
	return n, nil
}

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var (
		i     domain.Identity
		roles []string
	)
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.SecretHash,
		&i.FirstName,
		&i.LastName,
		&i.Phone,
		&roles,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.Roles, _ = domain.ParseRoleSet(roles)
	return &i, nil
}
