package apiv1

import (
	"context"

	"promo-business-api/internal/domain/model"
)

type ctxKey int

const companyCtxKey ctxKey = iota

func withCompany(ctx context.Context, c *model.Company) context.Context {
	return context.WithValue(ctx, companyCtxKey, c)
}

// CompanyFromContext returns the company resolved by the access gate.
func CompanyFromContext(ctx context.Context) (*model.Company, bool) {
	c, ok := ctx.Value(companyCtxKey).(*model.Company)
	return c, ok
}
