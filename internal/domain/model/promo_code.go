package model

import (
	"time"

	"promo-business-api/internal/domain"

	"github.com/oklog/ulid/v2"
)

// PromoMode selects between a single shared code and a pool of one-off codes.
type PromoMode string

const (
	ModeCommon PromoMode = "COMMON"
	ModeUnique PromoMode = "UNIQUE"
)

func (m PromoMode) Valid() bool { return m == ModeCommon || m == ModeUnique }

// PromoCode belongs to exactly one company; only that company may read or
// modify it. IDs are ULIDs, so ordering by ID is insertion order.
type PromoCode struct {
	ID          string
	CompanyID   string
	Mode        PromoMode
	PromoCommon *string
	PromoUnique []string
	Description string
	ImageURL    *string
	Target      map[string]any
	MaxCount    int
	ActiveFrom  time.Time
	ActiveUntil time.Time
	CreatedAt   time.Time
	Active      bool
	LikeCount   int
	UsedCount   int
}

func NewPromoCode(companyID string) (*PromoCode, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &PromoCode{
		ID:        ulid.Make().String(),
		CompanyID: companyID,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}, nil
}

// OwnedBy reports whether the promo belongs to the given company.
func (p *PromoCode) OwnedBy(companyID string) bool { return p.CompanyID == companyID }

// CountriesTargeted extracts target.countries as a string slice. The target is
// free-form JSON, so non-string entries are skipped.
func (p *PromoCode) CountriesTargeted() []string {
	raw, ok := p.Target["countries"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		// Already a string slice when built in-process.
		if ss, ok := raw.([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
