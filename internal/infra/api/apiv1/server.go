package apiv1

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"promo-business-api/internal/domain"
	"promo-business-api/internal/infra/api"
	"promo-business-api/internal/infra/logging"
	red "promo-business-api/internal/infra/redis"
	"promo-business-api/internal/usecase"
)

// Server wires the business API routes to the auth and promo use cases.
type Server struct {
	authUC  *usecase.AuthUseCase
	promoUC *usecase.PromoUseCase

	limiter    *red.RateLimiter // nil disables rate limiting
	authLimit  int
	authWindow time.Duration

	log *zerolog.Logger
}

func NewServer(
	authUC *usecase.AuthUseCase,
	promoUC *usecase.PromoUseCase,
	limiter *red.RateLimiter,
	authLimit int,
	authWindow time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		authUC:     authUC,
		promoUC:    promoUC,
		limiter:    limiter,
		authLimit:  authLimit,
		authWindow: authWindow,
		log:        logger,
	}
}

// Router builds the full HTTP handler: middleware chain, health/metrics, and
// the /api surface.
func (s *Server) Router(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(
		api.TraceID(s.log),
		api.RequestLog(s.log),
		api.Metrics(),
		api.Recover(s.log),
		api.Timeout(requestTimeout),
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)

		r.Route("/business", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimit)
				r.Post("/auth/sign-up", s.handleSignUp)
				r.Post("/auth/sign-in", s.handleSignIn)
			})

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Post("/promo", s.handlePromoCreate)
				r.Get("/promo", s.handlePromoList)
				r.Get("/promo/{id}", s.handlePromoGet)
				r.Patch("/promo/{id}", s.handlePromoUpdate)
				r.Get("/promo/{id}/stat", s.handlePromoStat)
			})
		})
	})

	return r
}

// authMiddleware is the access gate: extract the bearer token, verify it,
// resolve the subject to a company, and hand the company to the handlers.
// Every promo route runs behind it.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		company, err := s.authUC.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidToken):
				writeError(w, http.StatusUnauthorized, "invalid token")
			case errors.Is(err, domain.ErrNotFound):
				writeError(w, http.StatusUnauthorized, "company not found")
			default:
				logging.With(r.Context(), s.log).Error().Err(err).Msg("authenticate failed")
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		ctx := withCompany(r.Context(), company)
		ctx = logging.WithCompanyID(ctx, company.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		return "", false
	}
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// rateLimit applies a fixed window per client IP on the auth routes. A broken
// limiter fails open: slowing attackers is not worth refusing sign-ins.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		key := red.ClientRouteKey(clientIP(r), r.URL.Path)
		allowed, err := s.limiter.Allow(r.Context(), key, s.authLimit, s.authWindow)
		if err != nil {
			logging.With(r.Context(), s.log).Warn().Err(err).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func urlParamID(r *http.Request) string { return chi.URLParam(r, "id") }

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
