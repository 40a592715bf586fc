//go:build !integration

package apiv1_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
	"promo-business-api/internal/domain/ports/repository"
)

// In-memory repositories backing the real use cases, so the router tests
// exercise the full handler -> usecase -> repo path without Postgres.

type fakeCompanyRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.Company
	byEmail map[string]*model.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		byID:    map[string]*model.Company{},
		byEmail: map[string]*model.Company{},
	}
}

func (f *fakeCompanyRepo) Create(ctx context.Context, tx repository.Tx, c *model.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[c.Email]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *c
	f.byID[cp.ID] = &cp
	f.byEmail[cp.Email] = &cp
	return nil
}

func (f *fakeCompanyRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanyRepo) RecordLogin(ctx context.Context, tx repository.Tx, id string, at time.Time, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.LastLogin = &at
	c.Token = &token
	return nil
}

var _ repository.CompanyRepository = (*fakeCompanyRepo)(nil)

type fakePromoRepo struct {
	mu    sync.Mutex
	byID  map[string]*model.PromoCode
	order []string
}

func newFakePromoRepo() *fakePromoRepo {
	return &fakePromoRepo{byID: map[string]*model.PromoCode{}}
}

func copyPromo(p *model.PromoCode) *model.PromoCode {
	cp := *p
	if p.PromoUnique != nil {
		cp.PromoUnique = append([]string(nil), p.PromoUnique...)
	}
	if p.Target != nil {
		cp.Target = make(map[string]any, len(p.Target))
		for k, v := range p.Target {
			cp.Target[k] = v
		}
	}
	return &cp
}

func (f *fakePromoRepo) Create(ctx context.Context, tx repository.Tx, p *model.PromoCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[p.ID] = copyPromo(p)
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakePromoRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PromoCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyPromo(p), nil
}

func (f *fakePromoRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string, limit, offset int) ([]*model.PromoCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owned := make([]*model.PromoCode, 0)
	for _, id := range f.order {
		if p := f.byID[id]; p.CompanyID == companyID {
			owned = append(owned, p)
		}
	}
	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	out := make([]*model.PromoCode, 0, len(owned))
	for _, p := range owned {
		out = append(out, copyPromo(p))
	}
	return out, nil
}

func (f *fakePromoRepo) Update(ctx context.Context, tx repository.Tx, p *model.PromoCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[p.ID] = copyPromo(p)
	return nil
}

var _ repository.PromoCodeRepository = (*fakePromoRepo)(nil)

type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

var _ repository.TransactionManager = fakeTxManager{}
