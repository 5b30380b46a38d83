package repositories

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"site-intel-service/internal/domain"
	"site-intel-service/internal/platform/obs"

	"github.com/google/uuid"
)

const siteIDPrefix = "HH-"

const upsertSiteQuery = `
	INSERT INTO sites (
		id,
		site_type,
		name,
		notes,
		territory,
		acres,
		capacity_mw,
		latitude,
		longitude,
		saved_at,
		payload
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET site_type = EXCLUDED.site_type,
		name = EXCLUDED.name,
		notes = EXCLUDED.notes,
		territory = EXCLUDED.territory,
		acres = EXCLUDED.acres,
		capacity_mw = EXCLUDED.capacity_mw,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		saved_at = EXCLUDED.saved_at,
		payload = EXCLUDED.payload;
	`

// SQL-backed implementation of the SiteRepository port. The same queries
// serve SQLite and Postgres; Dialect only changes placeholders.
type SQLSiteRepository struct {
	DB      *sql.DB
	Dialect Dialect
	NewID   func() string
	Now     func() time.Time
}

func NewSQLSiteRepository(db *sql.DB, dialect Dialect) *SQLSiteRepository {
	return &SQLSiteRepository{DB: db, Dialect: dialect}
}

// NewSiteID returns "HH-" followed by a 22 character URL-safe encoding of a
// random UUID.
func NewSiteID() string {
	u := uuid.New()
	return siteIDPrefix + base64.RawURLEncoding.EncodeToString(u[:])
}

func (s *SQLSiteRepository) Save(ctx context.Context, site *domain.Site) (_ *domain.Site, err error) {
	defer obs.Time(ctx, "sites.repo.Save")(&err)

	if s.DB == nil {
		return nil, errors.New("sql site repository: DB is nil")
	}
	if site == nil {
		return nil, errors.New("save site: site is nil")
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("save site: %w", err)
	}

	out := *site
	out.ID = s.newID()
	out.SavedAt = s.now()

	args, err := siteArgs(&out)
	if err != nil {
		return nil, fmt.Errorf("save site: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, s.Dialect.rebind(upsertSiteQuery), args...); err != nil {
		return nil, fmt.Errorf("save site: insert: %w", err)
	}

	return &out, nil
}

func (s *SQLSiteRepository) Get(ctx context.Context, id string) (_ *domain.Site, err error) {
	defer obs.Time(ctx, "sites.repo.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("sql site repository: DB is nil")
	}

	q := `SELECT payload FROM sites WHERE id = ?;`

	var payload string
	err = s.DB.QueryRowContext(ctx, s.Dialect.rebind(q), strings.TrimSpace(id)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSiteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get site: query sites table: %w", err)
	}

	site, err := decodeSite(payload)
	if err != nil {
		return nil, fmt.Errorf("get site id=%s: %w", id, err)
	}
	return site, nil
}

func (s *SQLSiteRepository) List(ctx context.Context, siteType domain.SiteType) (_ []*domain.Site, err error) {
	defer obs.Time(ctx, "sites.repo.List")(&err)

	if siteType == "" {
		return s.query(ctx, "list sites", `
		SELECT payload
		FROM sites
		ORDER BY saved_at DESC, id DESC;
		`)
	}
	return s.query(ctx, "list sites", `
	SELECT payload
	FROM sites
	WHERE site_type = ?
	ORDER BY saved_at DESC, id DESC;
	`, string(siteType))
}

func (s *SQLSiteRepository) Search(ctx context.Context, query string) (_ []*domain.Site, err error) {
	defer obs.Time(ctx, "sites.repo.Search")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, "")
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return s.query(ctx, "search sites", `
	SELECT payload
	FROM sites
	WHERE LOWER(name) LIKE ? ESCAPE '\'
		OR LOWER(notes) LIKE ? ESCAPE '\'
		OR LOWER(territory) LIKE ? ESCAPE '\'
	ORDER BY saved_at DESC, id DESC;
	`, pattern, pattern, pattern)
}

func (s *SQLSiteRepository) Delete(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "sites.repo.Delete")(&err)

	if s.DB == nil {
		return errors.New("sql site repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.rebind(`DELETE FROM sites WHERE id = ?;`), strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete site: exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete site: rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrSiteNotFound
	}
	return nil
}

func (s *SQLSiteRepository) Clear(ctx context.Context) (_ int, err error) {
	defer obs.Time(ctx, "sites.repo.Clear")(&err)

	if s.DB == nil {
		return 0, errors.New("sql site repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM sites;`)
	if err != nil {
		return 0, fmt.Errorf("clear sites: exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear sites: rows affected: %w", err)
	}
	return int(n), nil
}

func (s *SQLSiteRepository) query(ctx context.Context, op, q string, args ...any) ([]*domain.Site, error) {
	if s.DB == nil {
		return nil, errors.New("sql site repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query sites table: %w", op, err)
	}
	defer rows.Close()

	sites := make([]*domain.Site, 0, 16)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		site, err := decodeSite(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return sites, nil
}

func (s *SQLSiteRepository) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return NewSiteID()
}

func (s *SQLSiteRepository) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func siteArgs(site *domain.Site) ([]any, error) {
	payload, err := json.Marshal(site)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	var lat, lon sql.NullFloat64
	if c := site.Coordinate(); c != nil {
		lat = sql.NullFloat64{Float64: c.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: c.Lon, Valid: true}
	}

	return []any{
		site.ID,
		string(site.Type),
		site.Name(),
		site.Notes(),
		site.Territory,
		site.Acres(),
		site.CapacityMW(),
		lat,
		lon,
		unixNano(site.SavedAt),
		string(payload),
	}, nil
}

func decodeSite(payload string) (*domain.Site, error) {
	var site domain.Site
	if err := json.Unmarshal([]byte(payload), &site); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &site, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
