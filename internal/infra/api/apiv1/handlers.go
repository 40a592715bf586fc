package apiv1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/domain/model"
	"promo-business-api/internal/infra/logging"
	"promo-business-api/internal/infra/metrics"
	"promo-business-api/internal/usecase"
)

// ---------- wire types ----------

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// promoDetail is the single-promo payload of GET /promo/{id} and PATCH.
// company_name carries the caller's email.
type promoDetail struct {
	PromoID     string          `json:"promo_id"`
	CompanyID   string          `json:"company_id"`
	CompanyName string          `json:"company_name"`
	LikeCount   int             `json:"like_count"`
	UsedCount   int             `json:"used_count"`
	Active      bool            `json:"active"`
	Mode        model.PromoMode `json:"mode"`
	PromoCommon *string         `json:"promo_common"`
	PromoUnique []string        `json:"promo_unique"`
	Description string          `json:"description"`
	ImageURL    *string         `json:"image_url"`
	Target      map[string]any  `json:"target"`
	MaxCount    int             `json:"max_count"`
	ActiveFrom  time.Time       `json:"active_from"`
	ActiveUntil time.Time       `json:"active_until"`
}

type promoListItem struct {
	ID          string          `json:"id"`
	Mode        model.PromoMode `json:"mode"`
	PromoCommon *string         `json:"promo_common"`
	PromoUnique []string        `json:"promo_unique"`
	Description string          `json:"description"`
	ImageURL    *string         `json:"image_url"`
	Target      map[string]any  `json:"target"`
	MaxCount    int             `json:"max_count"`
	ActiveFrom  time.Time       `json:"active_from"`
	ActiveUntil time.Time       `json:"active_until"`
	CreatedAt   time.Time       `json:"created_at"`
	Active      bool            `json:"active"`
}

func newPromoDetail(p *model.PromoCode, callerEmail string) promoDetail {
	return promoDetail{
		PromoID:     p.ID,
		CompanyID:   p.CompanyID,
		CompanyName: callerEmail,
		LikeCount:   p.LikeCount,
		UsedCount:   p.UsedCount,
		Active:      p.Active,
		Mode:        p.Mode,
		PromoCommon: p.PromoCommon,
		PromoUnique: p.PromoUnique,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Target:      p.Target,
		MaxCount:    p.MaxCount,
		ActiveFrom:  p.ActiveFrom,
		ActiveUntil: p.ActiveUntil,
	}
}

// ---------- response helpers ----------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"detail": msg})
}

func writeValidationError(w http.ResponseWriter, ve *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"detail": ve.Violations})
}

func writeBadJSON(w http.ResponseWriter, err error) {
	ve := &domain.ValidationError{Violations: []domain.FieldViolation{{
		Type:  "json_invalid",
		Loc:   []string{"body"},
		Msg:   err.Error(),
		Input: nil,
	}}}
	writeValidationError(w, ve)
}

// ---------- handlers ----------

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "PROOOOOOOOOOOOOOOOOD"})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in usecase.SignUpInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		metrics.IncSignup("invalid")
		writeBadJSON(w, err)
		return
	}

	if err := s.authUC.SignUp(r.Context(), in); err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			metrics.IncSignup("invalid")
			writeValidationError(w, ve)
		case errors.Is(err, domain.ErrAlreadyExists):
			metrics.IncSignup("conflict")
			writeError(w, http.StatusConflict, "email already registered")
		default:
			metrics.IncSignup("error")
			logging.With(r.Context(), s.log).Error().Err(err).Msg("sign-up failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	metrics.IncSignup("ok")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully signed up"})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var in signInRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		metrics.IncSignin("invalid")
		writeBadJSON(w, err)
		return
	}

	token, companyID, err := s.authUC.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.IncSignin("unauthorized")
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		metrics.IncSignin("error")
		logging.With(r.Context(), s.log).Error().Err(err).Msg("sign-in failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	metrics.IncSignin("ok")
	writeJSON(w, http.StatusOK, map[string]string{
		"token":      token,
		"company_id": companyID,
	})
}

func (s *Server) handlePromoCreate(w http.ResponseWriter, r *http.Request) {
	company, ok := CompanyFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var in usecase.CreatePromoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		metrics.IncPromoOp("create", "invalid")
		writeBadJSON(w, err)
		return
	}

	promo, err := s.promoUC.Create(r.Context(), company.ID, in)
	if err != nil {
		s.writePromoError(w, r, "create", err)
		return
	}

	metrics.IncPromoOp("create", "ok")
	writeJSON(w, http.StatusCreated, map[string]string{"id": promo.ID})
}

func (s *Server) handlePromoList(w http.ResponseWriter, r *http.Request) {
	company, ok := CompanyFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	ve := &domain.ValidationError{}
	limit := parseQueryInt(r, "limit", 0, ve)
	offset := parseQueryInt(r, "offset", 0, ve)
	if ve.HasViolations() {
		metrics.IncPromoOp("list", "invalid")
		writeValidationError(w, ve)
		return
	}

	promos, err := s.promoUC.List(r.Context(), company.ID, limit, offset)
	if err != nil {
		s.writePromoError(w, r, "list", err)
		return
	}

	out := make([]promoListItem, 0, len(promos))
	for _, p := range promos {
		out = append(out, promoListItem{
			ID:          p.ID,
			Mode:        p.Mode,
			PromoCommon: p.PromoCommon,
			PromoUnique: p.PromoUnique,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Target:      p.Target,
			MaxCount:    p.MaxCount,
			ActiveFrom:  p.ActiveFrom,
			ActiveUntil: p.ActiveUntil,
			CreatedAt:   p.CreatedAt,
			Active:      p.Active,
		})
	}

	metrics.IncPromoOp("list", "ok")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePromoGet(w http.ResponseWriter, r *http.Request) {
	company, ok := CompanyFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	promo, err := s.promoUC.Get(r.Context(), company.ID, urlParamID(r))
	if err != nil {
		s.writePromoError(w, r, "get", err)
		return
	}

	metrics.IncPromoOp("get", "ok")
	writeJSON(w, http.StatusOK, newPromoDetail(promo, company.Email))
}

func (s *Server) handlePromoUpdate(w http.ResponseWriter, r *http.Request) {
	company, ok := CompanyFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		metrics.IncPromoOp("update", "invalid")
		writeBadJSON(w, err)
		return
	}

	promo, err := s.promoUC.Update(r.Context(), company.ID, urlParamID(r), patch)
	if err != nil {
		s.writePromoError(w, r, "update", err)
		return
	}

	metrics.IncPromoOp("update", "ok")
	writeJSON(w, http.StatusOK, newPromoDetail(promo, company.Email))
}

func (s *Server) handlePromoStat(w http.ResponseWriter, r *http.Request) {
	company, ok := CompanyFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	stats, err := s.promoUC.Stats(r.Context(), company.ID, urlParamID(r))
	if err != nil {
		s.writePromoError(w, r, "stat", err)
		return
	}

	metrics.IncPromoOp("stat", "ok")
	writeJSON(w, http.StatusOK, stats)
}

// writePromoError maps domain failures to statuses; anything unexpected is
// logged with context and reported as a generic 500.
func (s *Server) writePromoError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		metrics.IncPromoOp(op, "invalid")
		writeValidationError(w, ve)
	case errors.Is(err, domain.ErrNotFound):
		metrics.IncPromoOp(op, "not_found")
		writeError(w, http.StatusNotFound, "promo code not found")
	case errors.Is(err, domain.ErrForbidden):
		metrics.IncPromoOp(op, "forbidden")
		writeError(w, http.StatusForbidden, "promo code belongs to another company")
	default:
		metrics.IncPromoOp(op, "error")
		logging.With(r.Context(), s.log).Error().Err(err).Str("op", op).Msg("promo operation failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseQueryInt(r *http.Request, name string, def int, ve *domain.ValidationError) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		ve.Violations = append(ve.Violations, domain.FieldViolation{
			Type:  "int_parsing",
			Loc:   []string{"query", name},
			Msg:   name + " must be an integer",
			Input: raw,
		})
		return def
	}
	return n
}
