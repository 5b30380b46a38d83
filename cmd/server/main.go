package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"site-intel-service/internal/adapters/cache"
	"site-intel-service/internal/adapters/records"
	"site-intel-service/internal/adapters/repositories"
	"site-intel-service/internal/api"
	"site-intel-service/internal/config"
	"site-intel-service/internal/county"
	"site-intel-service/internal/platform/db"
	"site-intel-service/internal/platform/metrics"
	"site-intel-service/internal/platform/obs"
	"site-intel-service/internal/ports"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, records API, Redis) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	obs.SetLogger(logger)

	if envErr != nil {
		logger.Info("no .env file found (using environment variables)")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile := county.Bosque()
	if cfg.CountyProfile != "" {
		p, err := county.LoadProfile(cfg.CountyProfile)
		if err != nil {
			return err
		}
		profile = p
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}
	repo := repositories.NewSQLSiteRepository(conn, dialect)

	if err := initAndSeed(ctx, conn, repo, cfg.SeedPath, logger); err != nil {
		return err
	}

	lookup, closeLookup, err := recordLookup(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLookup()

	router := api.NewRouter(api.Deps{
		Repo:         repo,
		Records:      lookup,
		Profile:      profile,
		Metrics:      metrics.New(),
		CORSOrigins:  cfg.CORSOrigins,
		BatchWorkers: cfg.BatchWorkers,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("county", profile.Name))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func initAndSeed(ctx context.Context, conn *sql.DB, repo *repositories.SQLSiteRepository, seedPath string, logger *zap.Logger) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if seedPath == "" {
		return nil
	}

	n, err := repositories.SeedFromJSON(ctx, repo, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logger.Info("seeded sites", zap.Int("count", n), zap.String("path", seedPath))
	return nil
}

// recordLookup builds the records backend, cached in Redis when REDIS_URL
// is set. It returns a nil lookup when RECORDS_BASE_URL is empty.
func recordLookup(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.RecordLookup, func(), error) {
	noop := func() {}
	if cfg.RecordsBaseURL == "" {
		logger.Info("records backend disabled (RECORDS_BASE_URL unset)")
		return nil, noop, nil
	}

	client, err := records.NewHTTPClient(cfg.RecordsBaseURL, cfg.RecordsAPIKey, cfg.RecordsTimeout)
	if err != nil {
		return nil, noop, err
	}
	if cfg.RedisURL == "" {
		return client, noop, nil
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, noop, err
	}
	logger.Info("records cache enabled", zap.Duration("ttl", cfg.RecordsCacheTTL))
	return cache.NewRecordCache(client, rdb, cfg.RecordsCacheTTL), func() { rdb.Close() }, nil
}
