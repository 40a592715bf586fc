//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
	"promo-business-api/internal/domain/ports/repository"
)

// -----------------------------
// In-memory company repository
// -----------------------------

type memCompanyRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.Company
	byEmail map[string]*model.Company

	errCreate error
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{
		byID:    map[string]*model.Company{},
		byEmail: map[string]*model.Company{},
	}
}

func (m *memCompanyRepo) Create(ctx context.Context, tx repository.Tx, c *model.Company) error {
	if m.errCreate != nil {
		return m.errCreate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[c.Email]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *c
	m.byID[cp.ID] = &cp
	m.byEmail[cp.Email] = &cp
	return nil
}

func (m *memCompanyRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCompanyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCompanyRepo) RecordLogin(ctx context.Context, tx repository.Tx, id string, at time.Time, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.LastLogin = &at
	c.Token = &token
	return nil
}

var _ repository.CompanyRepository = (*memCompanyRepo)(nil)

// -----------------------------
// In-memory promo repository
// -----------------------------

type memPromoRepo struct {
	mu     sync.Mutex
	byID   map[string]*model.PromoCode
	order  []string // insertion order of ids
	errGet error
}

func newMemPromoRepo() *memPromoRepo {
	return &memPromoRepo{byID: map[string]*model.PromoCode{}}
}

func clonePromo(p *model.PromoCode) *model.PromoCode {
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

func (m *memPromoRepo) Create(ctx context.Context, tx repository.Tx, p *model.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = clonePromo(p)
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memPromoRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PromoCode, error) {
	if m.errGet != nil {
		return nil, m.errGet
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePromo(p), nil
}

func (m *memPromoRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string, limit, offset int) ([]*model.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := make([]*model.PromoCode, 0)
	for _, id := range m.order {
		p := m.byID[id]
		if p.CompanyID == companyID {
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
		out = append(out, clonePromo(p))
	}
	return out, nil
}

func (m *memPromoRepo) Update(ctx context.Context, tx repository.Tx, p *model.PromoCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.byID[p.ID] = clonePromo(p)
	return nil
}

var _ repository.PromoCodeRepository = (*memPromoRepo)(nil)

// -----------------------------
// Transaction manager over the mem promo repo
// -----------------------------

// memTxManager snapshots the promo store before fn and restores it when fn
// fails, mirroring the all-or-nothing behavior of a real transaction.
type memTxManager struct {
	promos *memPromoRepo
}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.promos.mu.Lock()
	snapshot := make(map[string]*model.PromoCode, len(m.promos.byID))
	for id, p := range m.promos.byID {
		snapshot[id] = clonePromo(p)
	}
	order := append([]string(nil), m.promos.order...)
	m.promos.mu.Unlock()

	if err := fn(ctx, repository.NoTX); err != nil {
		m.promos.mu.Lock()
		m.promos.byID = snapshot
		m.promos.order = order
		m.promos.mu.Unlock()
		return err
	}
	return nil
}

var _ repository.TransactionManager = (*memTxManager)(nil)
