package api

import (
	"net/http"

	"site-intel-service/internal/api/handlers"
	"site-intel-service/internal/county"
	"site-intel-service/internal/platform/metrics"
	"site-intel-service/internal/ports"
	"site-intel-service/internal/services"

	gorillahandlers "github.com/gorilla/handlers"
)

// Deps are the adapters and services the HTTP layer needs.
// Records may be nil when no records backend is configured.
type Deps struct {
	Repo         ports.SiteRepository
	Records      ports.RecordLookup
	Profile      county.Profile
	Metrics      *metrics.Metrics
	CORSOrigins  []string
	BatchWorkers int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	solar := services.NewSolarEstimator(d.Profile.Bounds)
	dc := services.NewDataCenterEstimator(d.Profile.Bounds)

	estHandler := &handlers.EstimateHandler{
		SolarEstimator:      solar,
		DataCenterEstimator: dc,
		Metrics:             d.Metrics,
		Workers:             d.BatchWorkers,
	}
	geoHandler := &handlers.GeoHandler{Profile: d.Profile, Metrics: d.Metrics}
	afzHandler := &handlers.AFZHandler{Classifier: services.NewAFZClassifier(), Metrics: d.Metrics}
	siteHandler := &handlers.SiteHandler{
		Repo:                d.Repo,
		Profile:             d.Profile,
		SolarEstimator:      solar,
		DataCenterEstimator: dc,
	}
	recHandler := &handlers.RecordHandler{Lookup: d.Records, Metrics: d.Metrics}

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, d.Metrics.WrapHandler(pattern, h))
	}

	handle("GET /health", handlers.Health)

	handle("POST /estimates/solar", estHandler.Solar)
	handle("GET /estimates/solar/minimum", estHandler.SolarMinimum)
	handle("POST /estimates/solar/compare", estHandler.CompareSizes)
	handle("POST /estimates/datacenter", estHandler.DataCenter)
	handle("POST /estimates/datacenter/capacity", estHandler.DataCenterCapacity)
	handle("POST /estimates/batch", estHandler.Batch)

	handle("POST /geo/distance", geoHandler.Distance)
	handle("POST /geo/area", geoHandler.Area)
	handle("POST /geo/path-length", geoHandler.PathLength)
	handle("POST /geo/context", geoHandler.Context)

	handle("POST /afz/classify", afzHandler.Classify)

	handle("GET /sites", siteHandler.List)
	handle("POST /sites", siteHandler.Create)
	handle("DELETE /sites", siteHandler.Clear)
	handle("GET /sites/stats", siteHandler.Stats)
	handle("GET /sites/search", siteHandler.Search)
	handle("GET /sites/export.csv", siteHandler.ExportCSV)
	handle("GET /sites/export.geojson", siteHandler.ExportGeoJSON)
	handle("GET /sites/{id}", siteHandler.Get)
	handle("DELETE /sites/{id}", siteHandler.Delete)

	handle("GET /records/search/name", recHandler.SearchByName)
	handle("GET /records/search/property", recHandler.SearchByProperty)
	handle("GET /records/search/date", recHandler.SearchByDate)
	handle("GET /records/documents/{id}", recHandler.Document)
	handle("GET /records/types", recHandler.Types)

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	var h http.Handler = mux
	if len(d.CORSOrigins) > 0 {
		h = gorillahandlers.CORS(
			gorillahandlers.AllowedOrigins(d.CORSOrigins),
			gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
			gorillahandlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
			gorillahandlers.ExposedHeaders([]string{requestIDHeader, "Location"}),
		)(h)
	}

	return requestIDMiddleware(loggingMiddleware(h))
}
