package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
	"promo-business-api/internal/domain/ports/repository"
)

var _ repository.PromoCodeRepository = (*PostgresPromoRepo)(nil)

type PostgresPromoRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPromoRepo(pool *pgxpool.Pool) *PostgresPromoRepo {
	return &PostgresPromoRepo{pool: pool}
}

const promoColumns = `id, company_id, mode, promo_common, promo_unique, description, image_url,
       target, max_count, active_from, active_until, created_at, active, like_count, used_count`

func (r *PostgresPromoRepo) Create(ctx context.Context, tx repository.Tx, p *model.PromoCode) error {
	const q = `
INSERT INTO promo_codes (
  id, company_id, mode, promo_common, promo_unique, description, image_url,
  target, max_count, active_from, active_until, created_at, active, like_count, used_count
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15);
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	uniqueJSON, targetJSON, err := marshalPromoJSON(p)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q,
		p.ID, p.CompanyID, string(p.Mode), p.PromoCommon, uniqueJSON, p.Description, p.ImageURL,
		targetJSON, p.MaxCount, p.ActiveFrom, p.ActiveUntil, p.CreatedAt, p.Active, p.LikeCount, p.UsedCount)
	return err
}

func (r *PostgresPromoRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PromoCode, error) {
	q := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id=$1;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	p, err := scanPromo(ex.QueryRow(ctx, q, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostgresPromoRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string, limit, offset int) ([]*model.PromoCode, error) {
	// ULID primary keys are time-ordered, so ORDER BY id is insertion order
	// and stable across repeated calls.
	q := `SELECT ` + promoColumns + ` FROM promo_codes WHERE company_id=$1 ORDER BY id LIMIT $2 OFFSET $3;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.PromoCode, 0, limit)
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPromoRepo) Update(ctx context.Context, tx repository.Tx, p *model.PromoCode) error {
	const q = `
UPDATE promo_codes SET
  mode=$2, promo_common=$3, promo_unique=$4, description=$5, image_url=$6,
  target=$7, max_count=$8, active_from=$9, active_until=$10, active=$11,
  like_count=$12, used_count=$13
WHERE id=$1;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	uniqueJSON, targetJSON, err := marshalPromoJSON(p)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, q,
		p.ID, string(p.Mode), p.PromoCommon, uniqueJSON, p.Description, p.ImageURL,
		targetJSON, p.MaxCount, p.ActiveFrom, p.ActiveUntil, p.Active, p.LikeCount, p.UsedCount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// marshalPromoJSON encodes the jsonb columns. promo_unique stays NULL for
// COMMON promos.
func marshalPromoJSON(p *model.PromoCode) ([]byte, []byte, error) {
	var uniqueJSON []byte
	if p.PromoUnique != nil {
		b, err := json.Marshal(p.PromoUnique)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal promo_unique: %w", err)
		}
		uniqueJSON = b
	}
	targetJSON, err := json.Marshal(p.Target)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal target: %w", err)
	}
	return uniqueJSON, targetJSON, nil
}

func scanPromo(row pgx.Row) (*model.PromoCode, error) {
	var (
		p          model.PromoCode
		mode       string
		uniqueJSON []byte
		targetJSON []byte
	)
	if err := row.Scan(&p.ID, &p.CompanyID, &mode, &p.PromoCommon, &uniqueJSON, &p.Description, &p.ImageURL,
		&targetJSON, &p.MaxCount, &p.ActiveFrom, &p.ActiveUntil, &p.CreatedAt, &p.Active, &p.LikeCount, &p.UsedCount); err != nil {
		return nil, err
	}
	p.Mode = model.PromoMode(mode)
	if uniqueJSON != nil {
		if err := json.Unmarshal(uniqueJSON, &p.PromoUnique); err != nil {
			return nil, fmt.Errorf("unmarshal promo_unique: %w", err)
		}
	}
	if targetJSON != nil {
		if err := json.Unmarshal(targetJSON, &p.Target); err != nil {
			return nil, fmt.Errorf("unmarshal target: %w", err)
		}
	}
	return &p, nil
}
