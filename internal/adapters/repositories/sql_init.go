package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"site-intel-service/internal/domain"
)

// Initialize the site store schema. Statements are valid for both SQLite
// and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSitesQuery := `
	CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		site_type TEXT NOT NULL,
		name TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		territory TEXT NOT NULL DEFAULT '',
		acres DOUBLE PRECISION NOT NULL DEFAULT 0,
		capacity_mw DOUBLE PRECISION NOT NULL DEFAULT 0,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		saved_at BIGINT NOT NULL,
		payload TEXT NOT NULL
	);
	`

	createTypeIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_sites_type_saved_at
	ON sites(site_type, saved_at);
	`

	createSavedAtIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_sites_saved_at
	ON sites(saved_at);
	`

	statements := []string{
		createSitesQuery,
		createTypeIndexQuery,
		createSavedAtIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the store with sites from a JSON array in the export format.
// Sites without an ID are assigned one; existing IDs are overwritten.
func SeedFromJSON(ctx context.Context, repo *SQLSiteRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed sites: read %q: %w", jsonPath, err)
	}

	var data []*domain.Site
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed sites: parse json: %w", err)
	}

	for i, s := range data {
		if s == nil {
			return 0, fmt.Errorf("seed sites: item at index %d is null", i+1)
		}
		if err := s.Validate(); err != nil {
			return 0, fmt.Errorf("seed sites: item at index %d: %w", i+1, err)
		}
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			s.ID = repo.newID()
		}
		if s.SavedAt.IsZero() {
			s.SavedAt = repo.now()
		}
	}

	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed sites: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, repo.Dialect.rebind(upsertSiteQuery))
	if err != nil {
		return 0, fmt.Errorf("seed sites: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range data {
		args, err := siteArgs(s)
		if err != nil {
			return 0, fmt.Errorf("seed sites: id=%s: %w", s.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("seed sites: insert id=%s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed sites: commit tx: %w", err)
	}

	return len(data), nil
}

func unixNano(t time.Time) int64 { return t.UTC().UnixNano() }
