package repository

import (
	"context"

	"promo-business-api/internal/domain/model"
)

// -----------------------------
// Promo codes
// -----------------------------

type PromoCodeRepository interface {
	Create(ctx context.Context, tx Tx, p *model.PromoCode) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PromoCode, error)
	// ListByCompany returns the company's promos ordered by id (insertion
	// order, stable across repeated calls with unchanged data).
	ListByCompany(ctx context.Context, tx Tx, companyID string, limit, offset int) ([]*model.PromoCode, error)
	// Update rewrites every mutable column of the promo row.
	Update(ctx context.Context, tx Tx, p *model.PromoCode) error
}
