package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"site-intel-service/internal/adapters/records"
	"site-intel-service/internal/adapters/repositories"
	"site-intel-service/internal/county"
	"site-intel-service/internal/platform/db"
	"site-intel-service/internal/platform/metrics"
	"site-intel-service/internal/ports"
)

func newTestRouter(t *testing.T, lookup ports.RecordLookup) http.Handler {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := repositories.InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return NewRouter(Deps{
		Repo:         repositories.NewSQLSiteRepository(conn, repositories.SQLite),
		Records:      lookup,
		Profile:      county.Bosque(),
		Metrics:      metrics.New(),
		BatchWorkers: 2,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
}

func TestHealthAndRequestID(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	wantStatus(t, rec, http.StatusOK)
	if decode(t, rec)["status"] != "ok" {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}

func TestSolarEstimate(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/estimates/solar", `{"name":"North 100","acres":100}`)
	wantStatus(t, rec, http.StatusOK)

	m := decode(t, rec)
	if m["capacityMW"] != 50.0 || m["homesPowered"] != 6848.0 {
		t.Fatalf("body = %v", m)
	}
	if got := m["annualRevenue"].(float64); math.Abs(got-2_260_080) > 1e-6 {
		t.Fatalf("annualRevenue = %v, want 2260080", got)
	}
}

func TestSolarEstimateRejectsBadInput(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero acres", `{"name":"x","acres":0}`, "acres"},
		{"missing name", `{"acres":10}`, "name"},
		{"unknown field", `{"name":"x","acres":10,"color":"red"}`, "invalid json body"},
		{"two objects", `{"name":"x","acres":10}{}`, "only one JSON object"},
		{"bad coordinate", `{"name":"x","acres":10,"coordinate":{"latitude":95,"longitude":0}}`, "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/estimates/solar", tt.body)
			wantStatus(t, rec, http.StatusBadRequest)
			if msg, _ := decode(t, rec)["error"].(string); !strings.Contains(msg, tt.want) {
				t.Fatalf("error = %q, want it to mention %q", msg, tt.want)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(t, h, http.MethodGet, "/estimates/solar", "")
	wantStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestDataCenterEstimate(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/estimates/datacenter", `{"name":"DC","servers":1000}`)
	wantStatus(t, rec, http.StatusOK)

	m := decode(t, rec)
	if m["itLoadKW"] != 500.0 || m["totalFacilityLoadKW"] != 750.0 || m["racksRequired"] != 24.0 {
		t.Fatalf("body = %v", m)
	}
	if m["pueTier"] != "good" {
		t.Fatalf("pueTier = %v, want good", m["pueTier"])
	}
	water, _ := m["waterCooling"].(map[string]any)
	if water["coolingWaterGPM"] != 2.5 {
		t.Fatalf("waterCooling = %v", water)
	}
}

func TestDataCenterFromCapacity(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/estimates/datacenter/capacity", `{"name":"DC","targetMW":0.75,"pue":1.5}`)
	wantStatus(t, rec, http.StatusOK)
	if m := decode(t, rec); m["servers"] != 1000.0 {
		t.Fatalf("servers = %v, want 1000", m["servers"])
	}

	rec = do(t, h, http.MethodPost, "/estimates/datacenter/capacity", `{"name":"DC","targetMW":0}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestSolarMinimum(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/estimates/solar/minimum", "")
	wantStatus(t, rec, http.StatusOK)
	if m := decode(t, rec); m["minMW"] != 5.0 || m["acres"] != 10.0 {
		t.Fatalf("body = %v", m)
	}

	rec = do(t, h, http.MethodGet, "/estimates/solar/minimum?min_mw=20", "")
	wantStatus(t, rec, http.StatusOK)
	if m := decode(t, rec); m["acres"] != 40.0 {
		t.Fatalf("acres = %v, want 40", m["acres"])
	}

	for _, q := range []string{"abc", "0", "-3"} {
		rec = do(t, h, http.MethodGet, "/estimates/solar/minimum?min_mw="+q, "")
		wantStatus(t, rec, http.StatusBadRequest)
	}
}

func TestBatchEstimateReportsPerParcelErrors(t *testing.T) {
	h := newTestRouter(t, nil)

	body := `{"parcels":[{"name":"a","acres":20},{"name":"b","acres":-1},{"name":"c","acres":40}],
		"facilities":[{"name":"dc","servers":1000}]}`
	rec := do(t, h, http.MethodPost, "/estimates/batch", body)
	wantStatus(t, rec, http.StatusOK)

	var res struct {
		Results []struct {
			Index  int            `json:"index"`
			Result map[string]any `json:"result"`
			Error  string         `json:"error"`
		} `json:"results"`
		Facilities []struct {
			Result map[string]any `json:"result"`
		} `json:"facilities"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Succeeded != 3 || res.Failed != 1 || len(res.Results) != 3 || len(res.Facilities) != 1 {
		t.Fatalf("res = %+v", res)
	}
	if res.Results[1].Error == "" || res.Results[1].Result != nil {
		t.Fatalf("parcel b = %+v, want error", res.Results[1])
	}
	if res.Results[2].Result["capacityMW"] != 20.0 {
		t.Fatalf("parcel c = %+v", res.Results[2])
	}

	if res.Facilities[0].Result["racksRequired"] != 24.0 {
		t.Fatalf("facility = %+v", res.Facilities[0])
	}

	rec = do(t, h, http.MethodPost, "/estimates/batch", `{"parcels":[]}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestCompareSizesSkipsNonPositive(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/estimates/solar/compare", `{"name":"Ranch","acres":[10,0,-5,50]}`)
	wantStatus(t, rec, http.StatusOK)
	results := decode(t, rec)["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if first := results[0].(map[string]any); first["capacityMW"] != 5.0 {
		t.Fatalf("first = %v", first)
	}
}

func TestGeoEndpoints(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/geo/distance",
		`{"from":{"latitude":31.8749,"longitude":-97.6428},"to":{"latitude":31.8749,"longitude":-97.6428}}`)
	wantStatus(t, rec, http.StatusOK)
	if m := decode(t, rec); m["miles"] != 0.0 {
		t.Fatalf("miles = %v, want 0", m["miles"])
	}

	square := `{"vertices":[
		{"latitude":31.90,"longitude":-97.70},{"latitude":31.90,"longitude":-97.69},
		{"latitude":31.91,"longitude":-97.69},{"latitude":31.91,"longitude":-97.70}]}`
	rec = do(t, h, http.MethodPost, "/geo/area", square)
	wantStatus(t, rec, http.StatusOK)
	m := decode(t, rec)
	if acres := m["acres"].(float64); acres < 200 || acres > 300 {
		t.Fatalf("acres = %v, want roughly 259", acres)
	}
	if m["selfIntersecting"] != false || m["vertices"] != 4.0 {
		t.Fatalf("body = %v", m)
	}

	bowtie := `{"geojson":{"type":"Polygon","coordinates":[[[-97.70,31.90],[-97.69,31.91],[-97.69,31.90],[-97.70,31.91],[-97.70,31.90]]]}}`
	rec = do(t, h, http.MethodPost, "/geo/area", bowtie)
	wantStatus(t, rec, http.StatusOK)
	if m := decode(t, rec); m["selfIntersecting"] != true {
		t.Fatalf("selfIntersecting = %v, want true", m["selfIntersecting"])
	}

	rec = do(t, h, http.MethodPost, "/geo/area", `{"vertices":[{"latitude":31.9,"longitude":-97.7},{"latitude":31.91,"longitude":-97.7}]}`)
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, http.MethodPost, "/geo/path-length", `{"points":[{"latitude":31.9,"longitude":-97.7}]}`)
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, http.MethodPost, "/geo/path-length",
		`{"points":[{"latitude":31.9,"longitude":-97.7},{"latitude":31.9,"longitude":-97.7}]}`)
	wantStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodPost, "/geo/context", `{"latitude":31.8749,"longitude":-97.6428}`)
	wantStatus(t, rec, http.StatusOK)
	m = decode(t, rec)
	if m["inCounty"] != true || m["territory"] != "Bosque County (Oncor Territory)" || m["waterAccess"] != "excellent" {
		t.Fatalf("context = %v", m)
	}
}

func TestAFZClassify(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/afz/classify",
		`{"name":"Old gin","acres":40,"soilQuality":"marginal","brownfield":true,"nearestSubstationMiles":0.5}`)
	wantStatus(t, rec, http.StatusOK)
	m := decode(t, rec)
	if m["score"] != 100.0 || m["eligible"] != true {
		t.Fatalf("classification = %v", m)
	}

	rec = do(t, h, http.MethodPost, "/afz/classify", `{"name":"x","soilQuality":"peat"}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestSiteLifecycle(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/sites",
		`{"type":"solar","solar":{"name":"Meridian east","acres":100,"notes":"near FM 22","coordinate":{"latitude":31.9,"longitude":-97.6}}}`)
	wantStatus(t, rec, http.StatusCreated)
	site := decode(t, rec)
	id, _ := site["id"].(string)
	if !strings.HasPrefix(id, "HH-") {
		t.Fatalf("id = %q", id)
	}
	if site["territory"] != "Bosque County (Oncor Territory)" {
		t.Fatalf("territory = %v", site["territory"])
	}
	if rec.Header().Get("Location") != "/sites/"+id {
		t.Fatalf("location = %q", rec.Header().Get("Location"))
	}

	rec = do(t, h, http.MethodPost, "/sites", `{"type":"datacenter","datacenter":{"name":"Valley DC","servers":1000}}`)
	wantStatus(t, rec, http.StatusCreated)

	rec = do(t, h, http.MethodPost, "/sites", `{"type":"solar","datacenter":{"name":"x","servers":1}}`)
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, http.MethodGet, "/sites/"+id, "")
	wantStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodGet, "/sites?type=solar", "")
	wantStatus(t, rec, http.StatusOK)
	if sites := decode(t, rec)["sites"].([]any); len(sites) != 1 {
		t.Fatalf("solar sites = %d, want 1", len(sites))
	}

	rec = do(t, h, http.MethodGet, "/sites?type=wind", "")
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, http.MethodGet, "/sites/stats", "")
	wantStatus(t, rec, http.StatusOK)
	stats := decode(t, rec)
	if stats["totalSites"] != 2.0 || stats["totalAcres"] != 100.0 || stats["totalCapacityMW"] != 50.75 {
		t.Fatalf("stats = %v", stats)
	}

	rec = do(t, h, http.MethodGet, "/sites/search?q=FM%2022", "")
	wantStatus(t, rec, http.StatusOK)
	if sites := decode(t, rec)["sites"].([]any); len(sites) != 1 {
		t.Fatalf("search hits = %d, want 1", len(sites))
	}

	rec = do(t, h, http.MethodGet, "/sites/export.csv", "")
	wantStatus(t, rec, http.StatusOK)
	if lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n"); len(lines) != 3 || !strings.HasPrefix(lines[0], "id,type,name") {
		t.Fatalf("csv = %q", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/sites/export.geojson", "")
	wantStatus(t, rec, http.StatusOK)
	if fs := decode(t, rec)["features"].([]any); len(fs) != 1 {
		t.Fatalf("features = %d, want 1", len(fs))
	}

	rec = do(t, h, http.MethodDelete, "/sites/"+id, "")
	wantStatus(t, rec, http.StatusNoContent)
	rec = do(t, h, http.MethodGet, "/sites/"+id, "")
	wantStatus(t, rec, http.StatusNotFound)
	rec = do(t, h, http.MethodDelete, "/sites/"+id, "")
	wantStatus(t, rec, http.StatusNotFound)

	rec = do(t, h, http.MethodDelete, "/sites", "")
	wantStatus(t, rec, http.StatusOK)
	if m := decode(t, rec); m["deleted"] != 1.0 {
		t.Fatalf("deleted = %v, want 1", m["deleted"])
	}
}

func TestRecordsUnavailableWithoutBackend(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(t, h, http.MethodGet, "/records/types", "")
	wantStatus(t, rec, http.StatusServiceUnavailable)
}

func TestRecordRoutes(t *testing.T) {
	mock := &records.MockLookup{
		Records: []ports.Record{
			{ID: "r1", DocumentType: "deed", FiledDate: "2024-03-01", Grantor: "Smith Ranch", PropertyID: "P-9", Source: "clerk"},
			{ID: "r2", DocumentType: "lien", FiledDate: "2023-01-15", Grantee: "Jones", Source: "clerk"},
		},
		Documents: map[string]*ports.Document{"r1": {ID: "r1", Source: "clerk", FullText: "warranty deed"}},
		Types:     []string{"deed", "lien"},
	}
	h := newTestRouter(t, mock)

	rec := do(t, h, http.MethodGet, "/records/search/name?name=smith", "")
	wantStatus(t, rec, http.StatusOK)
	if rs := decode(t, rec)["records"].([]any); len(rs) != 1 {
		t.Fatalf("records = %d, want 1", len(rs))
	}

	rec = do(t, h, http.MethodGet, "/records/search/name", "")
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, http.MethodGet, "/records/search/property?property_id=P-9", "")
	wantStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodGet, "/records/search/date?start=2023-01-01&end=2023-12-31", "")
	wantStatus(t, rec, http.StatusOK)
	if rs := decode(t, rec)["records"].([]any); len(rs) != 1 {
		t.Fatalf("records = %d, want 1", len(rs))
	}

	rec = do(t, h, http.MethodGet, "/records/search/date?start=2024-01-01&end=2023-01-01", "")
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, h, http.MethodGet, "/records/documents/r1", "")
	wantStatus(t, rec, http.StatusOK)

	rec = do(t, h, http.MethodGet, "/records/documents/missing", "")
	wantStatus(t, rec, http.StatusNotFound)

	mock.Err = &records.LookupError{Op: "types", Status: 500, Err: errors.New("upstream down")}
	rec = do(t, h, http.MethodGet, "/records/types", "")
	wantStatus(t, rec, http.StatusBadGateway)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)

	do(t, h, http.MethodPost, "/estimates/solar", `{"name":"a","acres":10}`)
	do(t, h, http.MethodPost, "/estimates/solar", `{"name":"a","acres":0}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	wantStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	for _, want := range []string{
		`siteintel_estimates_total{kind="solar"} 1`,
		`siteintel_estimate_errors_total{kind="solar"} 1`,
		`siteintel_http_requests_total{route="POST /estimates/solar",status="400"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	h := NewRouter(Deps{
		Repo:        repositories.NewSQLSiteRepository(conn, repositories.SQLite),
		Profile:     county.Bosque(),
		CORSOrigins: []string{"https://maps.example.com"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/estimates/solar", nil)
	req.Header.Set("Origin", "https://maps.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://maps.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestEstimatesRejectOutOfRangeNumbers(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"huge acres", "/estimates/solar", `{"name":"x","acres":1e300}`},
		{"overflowing acres", "/estimates/solar", `{"name":"x","acres":1e308}`},
		{"subnormal acres", "/estimates/solar", `{"name":"x","acres":5e-324}`},
		{"overflowing watts", "/estimates/datacenter", `{"name":"x","servers":1000,"wattsPerServer":1e308}`},
		{"huge target", "/estimates/datacenter/capacity", `{"name":"x","targetMW":1e308}`},
		{"subnormal saved site", "/sites", `{"type":"solar","solar":{"name":"x","acres":5e-324}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			wantStatus(t, rec, http.StatusBadRequest)
			if msg, _ := decode(t, rec)["error"].(string); !strings.HasPrefix(msg, "validation:") {
				t.Fatalf("error = %q, want a validation message", msg)
			}
		})
	}
}

func TestDataCenterMaxServers(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/estimates/datacenter", `{"name":"x","servers":9223372036854775807}`)
	wantStatus(t, rec, http.StatusOK)
	if racks := decode(t, rec)["racksRequired"].(float64); racks <= 0 {
		t.Fatalf("racksRequired = %v, want > 0", racks)
	}
}

func TestPathLengthRejectsOutOfRangeVertex(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/geo/path-length",
		`{"points":[{"latitude":500,"longitude":-97.7},{"latitude":31.9,"longitude":-97.7}]}`)
	wantStatus(t, rec, http.StatusBadRequest)
	if msg, _ := decode(t, rec)["error"].(string); !strings.Contains(msg, "latitude") {
		t.Fatalf("error = %q, want it to mention latitude", msg)
	}
}
