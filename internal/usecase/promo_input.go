package usecase

import (
	"time"
	"unicode/utf8"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
)

const (
	promoDateFormat   = "2006-01-02"
	promoCommonMaxLen = 30
	descriptionMinLen = 10
	descriptionMaxLen = 300
	imageURLMaxLen    = 350
)

// CreatePromoInput is the promo creation request body. Pointer fields
// distinguish "absent" from "zero". Counter fields are deliberately not
// part of the schema: new promos always start at zero.
type CreatePromoInput struct {
	Mode        string         `json:"mode"`
	PromoCommon *string        `json:"promo_common"`
	PromoUnique []string       `json:"promo_unique"`
	Description string         `json:"description"`
	ImageURL    *string        `json:"image_url"`
	Target      map[string]any `json:"target"`
	MaxCount    *int           `json:"max_count"`
	ActiveFrom  string         `json:"active_from"`
	ActiveUntil string         `json:"active_until"`
}

// parsePromoDate accepts calendar dates only; the time component is always
// midnight UTC.
func parsePromoDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(promoDateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// validate checks every field invariant and collects all violations. On
// success it returns the parsed validity window.
func (in CreatePromoInput) validate() (from, until time.Time, err error) {
	ve := &domain.ValidationError{}

	mode := model.PromoMode(in.Mode)
	if !mode.Valid() {
		ve.Add("value_error", "mode", "mode must be COMMON or UNIQUE", in.Mode)
	}
	if mode == model.ModeCommon {
		if in.PromoCommon == nil || *in.PromoCommon == "" {
			ve.Add("missing", "promo_common", "promo_common is required for COMMON mode", nil)
		}
	}
	if in.PromoCommon != nil && utf8.RuneCountInString(*in.PromoCommon) > promoCommonMaxLen {
		ve.Add("string_length", "promo_common", "promo_common must be at most 30 characters", *in.PromoCommon)
	}
	if mode == model.ModeUnique && len(in.PromoUnique) == 0 {
		ve.Add("missing", "promo_unique", "promo_unique is required for UNIQUE mode", nil)
	}

	if n := utf8.RuneCountInString(in.Description); n < descriptionMinLen || n > descriptionMaxLen {
		ve.Add("string_length", "description", "description must be 10 to 300 characters", in.Description)
	}
	if in.ImageURL != nil && utf8.RuneCountInString(*in.ImageURL) > imageURLMaxLen {
		ve.Add("string_length", "image_url", "image_url must be at most 350 characters", *in.ImageURL)
	}
	if in.Target == nil {
		ve.Add("missing", "target", "target is required", nil)
	}
	if in.MaxCount == nil {
		ve.Add("missing", "max_count", "max_count is required", nil)
	} else if *in.MaxCount < 0 {
		ve.Add("value_error", "max_count", "max_count must be non-negative", *in.MaxCount)
	}

	// Dates are calendar-only; active_from <= active_until is deliberately
	// not checked (see DESIGN.md, open questions).
	var ok bool
	if from, ok = parsePromoDate(in.ActiveFrom); !ok {
		ve.Add("value_error", "active_from", "date must be in YYYY-MM-DD format", in.ActiveFrom)
	}
	if until, ok = parsePromoDate(in.ActiveUntil); !ok {
		ve.Add("value_error", "active_until", "date must be in YYYY-MM-DD format", in.ActiveUntil)
	}

	return from, until, ve.AsError()
}
