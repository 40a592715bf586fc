package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
	"promo-business-api/internal/domain/ports/repository"
)

var _ repository.CompanyRepository = (*PostgresCompanyRepo)(nil)

const uniqueViolationCode = "23505"

type PostgresCompanyRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCompanyRepo(pool *pgxpool.Pool) *PostgresCompanyRepo {
	return &PostgresCompanyRepo{pool: pool}
}

func (r *PostgresCompanyRepo) Create(ctx context.Context, tx repository.Tx, c *model.Company) error {
	const q = `
INSERT INTO companies (id, name, email, password)
VALUES ($1,$2,$3,$4);
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, c.ID, c.Name, c.Email, c.Password); err != nil {
		// The unique constraint on email is the only uniqueness source of
		// truth; concurrent sign-ups race here, not in application code.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresCompanyRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Company, error) {
	const q = `
SELECT id, name, email, password, last_login, token
  FROM companies WHERE email=$1;
`
	return r.findOne(ctx, tx, q, email)
}

func (r *PostgresCompanyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
	const q = `
SELECT id, name, email, password, last_login, token
  FROM companies WHERE id=$1;
`
	return r.findOne(ctx, tx, q, id)
}

func (r *PostgresCompanyRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg any) (*model.Company, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var c model.Company
	if err := ex.QueryRow(ctx, q, arg).Scan(&c.ID, &c.Name, &c.Email, &c.Password, &c.LastLogin, &c.Token); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCompanyRepo) RecordLogin(ctx context.Context, tx repository.Tx, id string, at time.Time, token string) error {
	const q = `UPDATE companies SET last_login=$2, token=$3 WHERE id=$1;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, q, id, at, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
