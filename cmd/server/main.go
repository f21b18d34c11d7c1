package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zkqrc/internal/claims/handler"
	"zkqrc/internal/claims/resolver"
	"zkqrc/internal/claims/service"
	"zkqrc/internal/claims/store"
	"zkqrc/internal/claims/tracer"
	"zkqrc/internal/platform/config"
	"zkqrc/internal/platform/database"
	"zkqrc/internal/platform/health"
	"zkqrc/internal/platform/httpserver"
	"zkqrc/internal/platform/logger"
	"zkqrc/internal/platform/metrics"
	"zkqrc/internal/platform/middleware"
	"zkqrc/internal/qrc"
	"zkqrc/internal/seeder"
	"zkqrc/internal/zk"
	dErrors "zkqrc/pkg/domain-errors"
	"zkqrc/pkg/platform/httputil"
)

const maxPayloadBytes = 2 << 20 // QR payloads are small; 2 MiB is already generous

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	log.Info("initializing zk-qrc",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"store", storeKind(cfg),
	)

	holderStore := buildStore(cfg, log)

	keyCache := zk.NewKeyCache(cfg.ZK.VerificationKeyPath)
	verifier := zk.NewVerifier(keyCache)

	prover, err := zk.NewProver(cfg.ZK.ConstraintSystemPath, cfg.ZK.ProvingKeyPath, cfg.ZK.SuccessPublicSignal)
	if err != nil {
		log.Error("failed to load circuit artifacts; run cmd/zksetup to generate them", "error", err)
		os.Exit(1)
	}

	svc := service.NewService(
		resolver.New(holderStore),
		prover,
		verifier,
		qrc.New(0),
		cfg.ZK.SuccessPublicSignal,
		service.WithMetrics(m),
		service.WithLogger(log),
		service.WithTracer(tracer.NewOTel()),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("store", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return holderStore.Health(ctx)
	})
	healthHandler.RegisterCheck("verification_key", keyCache.Health)

	router := newRouter(cfg, log, handler.New(svc, log, m), healthHandler)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func newRouter(cfg config.Server, log *slog.Logger, claims *handler.Handler, healthHandler *health.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.MaxBody(maxPayloadBytes))
	r.Use(middleware.ContentTypeJSON)

	// Unmatched routes get the same error envelope as everything else.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Route not found"))
	})

	healthHandler.Register(r)
	r.Get("/healthz", healthHandler.HandleStatus)
	// Legacy health body still expected by deployed scanner builds.
	r.Get("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	claims.Register(r)
	return r
}

func storeKind(cfg config.Server) string {
	if cfg.StoreURL == "" {
		return "memory"
	}
	return "postgres"
}

// buildStore selects the holder store. Without a store URL the service runs
// self-contained on seeded demo data; with one, the postgres connection is
// established lazily on first use so startup does not depend on the database.
func buildStore(cfg config.Server, log *slog.Logger) store.HolderStore {
	if cfg.StoreURL == "" {
		mem := store.NewInMemory()
		if err := seeder.New(mem, log).SeedAll(context.Background()); err != nil {
			log.Error("failed to seed demo holders", "error", err)
			os.Exit(1)
		}
		return mem
	}

	return store.NewLazy(func(ctx context.Context) (store.HolderStore, error) {
		dbCfg := database.DefaultConfig()
		dbCfg.URL = cfg.StoreURL
		pool, err := database.New(dbCfg)
		if err != nil {
			return nil, err
		}
		if err := pool.Health(ctx); err != nil {
			return nil, err
		}
		return store.NewPostgres(pool.DB()), nil
	})
}
