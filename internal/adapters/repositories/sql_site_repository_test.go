package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"site-intel-service/internal/domain"

	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *SQLSiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// each pooled connection would get its own in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(context.Background(), db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	repo := NewSQLSiteRepository(db, SQLite)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	seq := 0
	repo.NewID = func() string {
		seq++
		return fmt.Sprintf("HH-test%02d", seq)
	}
	return repo
}

func solarSite(name, notes string, acres float64) *domain.Site {
	inCounty := true
	return domain.NewSolarSite(domain.SolarResult{
		Name:       name,
		Notes:      notes,
		Acres:      acres,
		CapacityMW: acres * 0.5,
		Coordinate: &domain.Coordinate{Lat: 31.9, Lon: -97.6},
		InCounty:   &inCounty,
	}, "Bosque County (Oncor Territory)")
}

func dcSite(name string, mw float64) *domain.Site {
	return domain.NewDataCenterSite(domain.DataCenterResult{
		Name:                name,
		Servers:             1000,
		TotalFacilityLoadMW: mw,
		TotalSiteAcres:      12.9,
	}, "")
}

func TestSaveAssignsIDAndTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := solarSite("Hico Road", "", 100)
	saved, err := repo.Save(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != "HH-test01" {
		t.Fatalf("id = %q, want HH-test01", saved.ID)
	}
	if saved.SavedAt.IsZero() {
		t.Fatalf("savedAt not set")
	}
	if in.ID != "" {
		t.Fatalf("caller site mutated: id = %q", in.ID)
	}

	got, err := repo.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "Hico Road" || got.Solar.CapacityMW != 50 {
		t.Fatalf("round trip mismatch: %+v", got.Solar)
	}
	if !got.SavedAt.Equal(saved.SavedAt) {
		t.Fatalf("savedAt = %v, want %v", got.SavedAt, saved.SavedAt)
	}
	if got.Solar.InCounty == nil || !*got.Solar.InCounty {
		t.Fatalf("inCounty lost in round trip")
	}
}

func TestSaveRejectsMismatchedPayload(t *testing.T) {
	repo := newTestRepo(t)
	bad := &domain.Site{Type: domain.SiteTypeSolar}
	if _, err := repo.Save(context.Background(), bad); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestListNewestFirstAndFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, s := range []*domain.Site{solarSite("A", "", 10), dcSite("B", 0.75), solarSite("C", "", 20)} {
		if _, err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, s := range all {
		names = append(names, s.Name())
	}
	if strings.Join(names, ",") != "C,B,A" {
		t.Fatalf("order = %v, want C,B,A", names)
	}

	solar, err := repo.List(ctx, domain.SiteTypeSolar)
	if err != nil {
		t.Fatalf("list solar: %v", err)
	}
	if len(solar) != 2 {
		t.Fatalf("solar sites = %d, want 2", len(solar))
	}

	st := domain.ComputeStats(all)
	if st.TotalSites != 3 || st.ByType[domain.SiteTypeDataCenter] != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if st.TotalAcres != 30 {
		t.Fatalf("total acres = %v, want 30", st.TotalAcres)
	}
	if st.TotalCapacityMW != 15.75 {
		t.Fatalf("total MW = %v, want 15.75", st.TotalCapacityMW)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, s := range []*domain.Site{
		solarSite("Walnut Springs Ranch", "", 100),
		solarSite("Clifton", "near the RANCH road", 40),
		dcSite("Meridian 100%", 1),
	} {
		if _, err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := repo.Search(ctx, "ranch")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2", len(got))
	}

	got, err = repo.Search(ctx, "oncor")
	if err != nil {
		t.Fatalf("search territory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("territory matches = %d, want 2", len(got))
	}

	got, err = repo.Search(ctx, "0%")
	if err != nil {
		t.Fatalf("search literal: %v", err)
	}
	if len(got) != 1 || got[0].Name() != "Meridian 100%" {
		t.Fatalf("literal %% match = %v", got)
	}
}

func TestDeleteAndClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, _ := repo.Save(ctx, solarSite("A", "", 1))
	if _, err := repo.Save(ctx, solarSite("B", "", 2)); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, a.ID); !errors.Is(err, domain.ErrSiteNotFound) {
		t.Fatalf("get deleted: err = %v, want ErrSiteNotFound", err)
	}
	if err := repo.Delete(ctx, a.ID); !errors.Is(err, domain.ErrSiteNotFound) {
		t.Fatalf("delete twice: err = %v, want ErrSiteNotFound", err)
	}

	n, err := repo.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 1 {
		t.Fatalf("cleared = %d, want 1", n)
	}
}

func TestSeedFromJSON(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "sites.json")
	data := `[
		{"id":"HH-seed1","type":"solar","savedAt":"2025-06-01T00:00:00Z","solar":{"name":"Seed Solar","acres":200,"capacityMW":100}},
		{"type":"datacenter","datacenter":{"name":"Seed DC","servers":500,"totalFacilityLoadMW":0.375}}
	]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	n, err := SeedFromJSON(ctx, repo, path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded = %d, want 2", n)
	}

	got, err := repo.Get(ctx, "HH-seed1")
	if err != nil {
		t.Fatalf("get seeded: %v", err)
	}
	if got.Solar.Acres != 200 {
		t.Fatalf("acres = %v, want 200", got.Solar.Acres)
	}

	// re-seeding overwrites rather than duplicating
	if _, err := SeedFromJSON(ctx, repo, path); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	all, _ := repo.List(ctx, "")
	if len(all) != 3 {
		t.Fatalf("sites after reseed = %d, want 3", len(all))
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT 1 FROM sites WHERE a = ? AND b = ?"
	if got := SQLite.rebind(q); got != q {
		t.Fatalf("sqlite rebind changed query: %q", got)
	}
	want := "SELECT 1 FROM sites WHERE a = $1 AND b = $2"
	if got := Postgres.rebind(q); got != want {
		t.Fatalf("postgres rebind = %q, want %q", got, want)
	}
}

func TestNewSiteIDFormat(t *testing.T) {
	id := NewSiteID()
	if !strings.HasPrefix(id, "HH-") || len(id) != 3+22 {
		t.Fatalf("id = %q, want HH- plus 22 characters", id)
	}
	if NewSiteID() == id {
		t.Fatalf("ids not unique")
	}
}
