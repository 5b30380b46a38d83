package main

import (
	"context"
	"os"
	"strings"

	"site-intel-service/internal/adapters/repositories"
	"site-intel-service/internal/config"
	"site-intel-service/internal/platform/db"
	"site-intel-service/internal/platform/obs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	obs.SetLogger(logger)

	if envErr != nil {
		logger.Info("no .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	conn, err := db.OpenPostgres(databaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()

	logger.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	logger.Info("schema ready")

	seedPath := config.Get("SEED_PATH", "data/seeds/sites.json")
	repo := repositories.NewSQLSiteRepository(conn, repositories.Postgres)

	logger.Info("seeding database", zap.String("path", seedPath))
	n, err := repositories.SeedFromJSON(ctx, repo, seedPath)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding complete", zap.Int("sites", n))
}
