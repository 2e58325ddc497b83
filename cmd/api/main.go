package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	"github.com/BruksfildServices01/vetclinic-api/internal/auth"
	"github.com/BruksfildServices01/vetclinic-api/internal/config"
	dbpkg "github.com/BruksfildServices01/vetclinic-api/internal/db"
	"github.com/BruksfildServices01/vetclinic-api/internal/infra/payment"
	"github.com/BruksfildServices01/vetclinic-api/internal/infra/ratelimit"
	"github.com/BruksfildServices01/vetclinic-api/internal/infra/storage"
	"github.com/BruksfildServices01/vetclinic-api/internal/logger"
	"github.com/BruksfildServices01/vetclinic-api/internal/metrics"
	"github.com/BruksfildServices01/vetclinic-api/internal/routes"
	ucPet "github.com/BruksfildServices01/vetclinic-api/internal/usecase/pet"
	ucSubscription "github.com/BruksfildServices01/vetclinic-api/internal/usecase/subscription"
	"github.com/BruksfildServices01/vetclinic-api/internal/validators"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validators.RegisterBindingRules(); err != nil {
		return fmt.Errorf("registering validators: %w", err)
	}

	// ======================================================
	// 🗄️ DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = dbpkg.Close(db) }()

	// ======================================================
	// 📈 METRICS + AUDIT
	// ======================================================
	m := metrics.NewCollector()

	dispatcher := audit.NewDispatcher(audit.New(db), log, func() {
		m.AuditDropped.Inc()
	})

	// ======================================================
	// 🚦 RATE LIMIT (REDIS OPCIONAL)
	// ======================================================
	var counter ratelimit.Counter
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := ratelimit.NewRedisCounter(ctx, cfg.RedisURL)
		cancel()

		if err != nil {
			log.Warn("redis unavailable, login rate limiting disabled", zap.Error(err))
		} else {
			counter = rc
			defer func() { _ = rc.Close() }()
		}
	}
	limiter := ratelimit.New(counter, cfg.LoginRateLimit, cfg.LoginRateWindow, log)

	// ======================================================
	// 🖼️ FOTOS (S3 OPCIONAL)
	// ======================================================
	var photos ucPet.PhotoStore
	if cfg.S3.Enabled() {
		photos = storage.NewS3Storage(cfg.S3)
	} else {
		log.Info("S3 not configured, pet photo upload disabled")
	}

	// ======================================================
	// 💳 PAGAMENTOS (MERCADO PAGO OPCIONAL)
	// ======================================================
	var payments ucSubscription.Gateway
	if cfg.MercadoPagoToken != "" {
		mp, err := payment.NewMercadoPago(cfg.MercadoPagoToken, cfg.MercadoPagoNotificationURL)
		if err != nil {
			return fmt.Errorf("configuring mercado pago: %w", err)
		}
		payments = mp
	} else {
		log.Info("Mercado Pago not configured, subscription checkout disabled")
	}

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, db, cfg, routes.Infra{
		Log:        log,
		Metrics:    m,
		Audit:      dispatcher,
		Limiter:    limiter,
		Tokens:     auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL),
		PhotoStore: photos,
		Payments:   payments,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	dispatcher.Close(ctx)

	log.Info("server stopped")
	return nil
}
