package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"attesta/internal/audit"
	"attesta/internal/idgen"
	"attesta/internal/jose"
	"attesta/internal/platform/config"
	"attesta/internal/platform/httpserver"
	"attesta/internal/platform/logger"
	"attesta/internal/platform/metrics"
	"attesta/internal/presentation/service"
	memorystore "attesta/internal/presentation/store/memory"
	postgresstore "attesta/internal/presentation/store/postgres"
	redisstore "attesta/internal/presentation/store/redis"
	httptransport "attesta/internal/transport/http"
)

const auditInboxSize = 256

// main wires the verifier endpoint: config, store backend, signer, the
// presentation service with its sweeper, and the HTTP surface. Business logic
// lives in the internal packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	verifierCfg := cfg.Verifier.VerifierConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Error("store init failed", "err", err)
		os.Exit(1)
	}

	signer, err := jose.NewSigner(verifierCfg.ClientMetaData, time.Now)
	if err != nil {
		log.Error("signer init failed", "err", err)
		os.Exit(1)
	}

	inbox := make(chan audit.Event, auditInboxSize)
	auditWorker := audit.NewWorker(audit.NewInMemoryStore(), inbox)
	go func() {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("audit worker stopped", "err", err)
		}
	}()

	svc := service.New(store, signer, idgen.New(idgen.DefaultByteLength), verifierCfg, log,
		service.WithMetrics(metrics.New()),
		service.WithEvents(audit.NewChannelPublisher(inbox)),
	)

	sweeper := service.NewSweeper(svc, cfg.Verifier.SweepInterval)
	go func() {
		if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("timeout sweeper stopped", "err", err)
		}
	}()

	router := httptransport.NewRouter(
		httptransport.NewVerifierHandler(svc, log),
		httptransport.NewWalletHandler(svc, signer, log),
		log,
	)
	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting verifier endpoint", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	log.Info("verifier endpoint stopped")
}

// newStore picks the session store backend: Redis when configured, then
// PostgreSQL, falling back to the in-process store for single-node runs.
func newStore(ctx context.Context, cfg config.Config, log *slog.Logger) (service.Store, error) {
	switch {
	case cfg.Redis.URL != "":
		opts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		log.Info("using redis session store")
		return redisstore.New(client), nil
	case cfg.Postgres.URL != "":
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		store := postgresstore.New(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info("using postgres session store")
		return store, nil
	default:
		log.Info("using in-memory session store")
		return memorystore.New(), nil
	}
}
