package usecase

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
	"promo-business-api/internal/domain/ports/repository"
	"promo-business-api/internal/infra/logging"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// PromoStats is the stats endpoint payload. The per-country count replicates
// the promo's global used_count for every targeted country; there is no true
// per-country split in the data model.
type PromoStats struct {
	ActivationsCount int            `json:"activations_count"`
	Countries        []CountryStats `json:"countries"`
}

type CountryStats struct {
	Country          string `json:"country"`
	ActivationsCount int    `json:"activations_count"`
}

// PromoUseCase owns the promo-code lifecycle: validated creation, paginated
// listing, ownership-checked reads, atomic partial updates and stats.
type PromoUseCase struct {
	promos repository.PromoCodeRepository
	tm     repository.TransactionManager
	log    *zerolog.Logger
}

func NewPromoUseCase(promos repository.PromoCodeRepository, tm repository.TransactionManager, logger *zerolog.Logger) *PromoUseCase {
	return &PromoUseCase{promos: promos, tm: tm, log: logger}
}

// Create validates the input (reporting every violated field) and persists a
// new promo owned by the calling company. like_count and used_count always
// start at zero; only PATCH can move them.
func (uc *PromoUseCase) Create(ctx context.Context, companyID string, in CreatePromoInput) (*model.PromoCode, error) {
	from, until, err := in.validate()
	if err != nil {
		return nil, err
	}

	promo, err := model.NewPromoCode(companyID)
	if err != nil {
		return nil, err
	}
	promo.Mode = model.PromoMode(in.Mode)
	promo.PromoCommon = in.PromoCommon
	promo.PromoUnique = in.PromoUnique
	promo.Description = in.Description
	promo.ImageURL = in.ImageURL
	promo.Target = in.Target
	promo.MaxCount = *in.MaxCount
	promo.ActiveFrom = from
	promo.ActiveUntil = until

	if err := uc.promos.Create(ctx, repository.NoTX, promo); err != nil {
		return nil, fmt.Errorf("create promo: %w", err)
	}
	logging.With(ctx, uc.log).Info().Str("promo_id", promo.ID).Msg("promo created")
	return promo, nil
}

// List returns the company's promos in insertion order. The limit is clamped
// to [1,100] with a default of 10; offset defaults to 0.
func (uc *PromoUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*model.PromoCode, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.promos.ListByCompany(ctx, repository.NoTX, companyID, limit, offset)
}

// Get fetches a promo and enforces ownership: a missing id is
// domain.ErrNotFound, an existing id owned by someone else is
// domain.ErrForbidden. The two are never conflated.
func (uc *PromoUseCase) Get(ctx context.Context, companyID, id string) (*model.PromoCode, error) {
	promo, err := uc.promos.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if !promo.OwnedBy(companyID) {
		return nil, domain.ErrForbidden
	}
	return promo, nil
}

// Update applies a partial field map to an owned promo. The whole apply-and-
// recheck runs inside one transaction: if the patched state violates
// used_count <= max_count (or any field fails to apply), nothing is written.
func (uc *PromoUseCase) Update(ctx context.Context, companyID, id string, patch map[string]any) (*model.PromoCode, error) {
	// Ownership is checked before any mutation, with the same NotFound vs
	// Forbidden split as Get.
	if _, err := uc.Get(ctx, companyID, id); err != nil {
		return nil, err
	}

	var updated *model.PromoCode
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		promo, err := uc.promos.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := applyPatch(promo, patch); err != nil {
			return err
		}
		if promo.UsedCount > promo.MaxCount {
			ve := &domain.ValidationError{}
			ve.Add("value_error", "used_count", "used_count exceeds max_count", promo.UsedCount)
			return ve
		}
		if err := uc.promos.Update(ctx, tx, promo); err != nil {
			return err
		}
		updated = promo
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.With(ctx, uc.log).Info().Str("promo_id", id).Msg("promo updated")
	return updated, nil
}

// Stats returns the activation totals for an owned promo, replicated per
// country listed in target.countries.
func (uc *PromoUseCase) Stats(ctx context.Context, companyID, id string) (*PromoStats, error) {
	promo, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	countries := promo.CountriesTargeted()
	stats := &PromoStats{
		ActivationsCount: promo.UsedCount,
		Countries:        make([]CountryStats, 0, len(countries)),
	}
	for _, c := range countries {
		stats.Countries = append(stats.Countries, CountryStats{Country: c, ActivationsCount: promo.UsedCount})
	}
	return stats, nil
}
