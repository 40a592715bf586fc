// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promo-business-api/internal/config"
	"promo-business-api/internal/infra/api/apiv1"
	pg "promo-business-api/internal/infra/db/postgres"
	"promo-business-api/internal/infra/logging"
	"promo-business-api/internal/infra/metrics"
	red "promo-business-api/internal/infra/redis"
	"promo-business-api/internal/infra/security"
	"promo-business-api/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no PII redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	if err := pg.RunMigrations(cfg.Database.URL); err != nil {
		logger.Fatal().Err(err).Msg("migrations")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional; auth rate limiting only) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Info().Msg("redis.url not set; auth rate limiting disabled")
	}

	// ---- Repositories ----
	companyRepo := pg.NewPostgresCompanyRepo(pool)
	promoRepo := pg.NewPostgresPromoRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Credential primitives ----
	hasher := security.NewBcryptHasher(0)
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// ---- Use cases ----
	authUC := usecase.NewAuthUseCase(companyRepo, hasher, tokens, logger, cfg.Runtime.Dev)
	promoUC := usecase.NewPromoUseCase(promoRepo, txManager, logger)

	// ---- HTTP server ----
	srv := apiv1.NewServer(authUC, promoUC, limiter, cfg.Redis.AuthLimit, cfg.Redis.AuthWindow, logger)
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: srv.Router(cfg.Server.RequestTimeout),
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
