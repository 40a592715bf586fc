package usecase

import (
	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
)

// applyPatch applies the fields present in the partial input onto the promo,
// ignoring unknown field names. Server-assigned and ownership fields (id,
// company_id, created_at) are never patchable. Type mismatches are collected
// as violations, all at once.
func applyPatch(p *model.PromoCode, patch map[string]any) error {
	ve := &domain.ValidationError{}

	for key, raw := range patch {
		switch key {
		case "mode":
			if s, ok := raw.(string); ok && model.PromoMode(s).Valid() {
				p.Mode = model.PromoMode(s)
			} else {
				ve.Add("value_error", "mode", "mode must be COMMON or UNIQUE", raw)
			}
		case "promo_common":
			if raw == nil {
				p.PromoCommon = nil
			} else if s, ok := raw.(string); ok {
				p.PromoCommon = &s
			} else {
				ve.Add("type_error", "promo_common", "promo_common must be a string", raw)
			}
		case "promo_unique":
			if raw == nil {
				p.PromoUnique = nil
			} else if ss, ok := asStringSlice(raw); ok {
				p.PromoUnique = ss
			} else {
				ve.Add("type_error", "promo_unique", "promo_unique must be a list of strings", raw)
			}
		case "description":
			if s, ok := raw.(string); ok {
				p.Description = s
			} else {
				ve.Add("type_error", "description", "description must be a string", raw)
			}
		case "image_url":
			if raw == nil {
				p.ImageURL = nil
			} else if s, ok := raw.(string); ok {
				p.ImageURL = &s
			} else {
				ve.Add("type_error", "image_url", "image_url must be a string", raw)
			}
		case "target":
			if m, ok := raw.(map[string]any); ok {
				p.Target = m
			} else {
				ve.Add("type_error", "target", "target must be an object", raw)
			}
		case "max_count":
			if n, ok := asInt(raw); ok {
				p.MaxCount = n
			} else {
				ve.Add("type_error", "max_count", "max_count must be an integer", raw)
			}
		case "active_from":
			if s, ok := raw.(string); ok {
				if t, ok := parsePromoDate(s); ok {
					p.ActiveFrom = t
					break
				}
			}
			ve.Add("value_error", "active_from", "date must be in YYYY-MM-DD format", raw)
		case "active_until":
			if s, ok := raw.(string); ok {
				if t, ok := parsePromoDate(s); ok {
					p.ActiveUntil = t
					break
				}
			}
			ve.Add("value_error", "active_until", "date must be in YYYY-MM-DD format", raw)
		case "active":
			if b, ok := raw.(bool); ok {
				p.Active = b
			} else {
				ve.Add("type_error", "active", "active must be a boolean", raw)
			}
		case "like_count":
			if n, ok := asInt(raw); ok && n >= 0 {
				p.LikeCount = n
			} else {
				ve.Add("value_error", "like_count", "like_count must be a non-negative integer", raw)
			}
		case "used_count":
			if n, ok := asInt(raw); ok && n >= 0 {
				p.UsedCount = n
			} else {
				ve.Add("value_error", "used_count", "used_count must be a non-negative integer", raw)
			}
		default:
			// Unknown names are ignored; a patch never grows the schema.
		}
	}

	return ve.AsError()
}

// asInt narrows a decoded JSON number (float64) to an integer.
func asInt(raw any) (int, bool) {
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func asStringSlice(raw any) ([]string, bool) {
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
