package handlers

import (
	"net/http"

	"site-intel-service/internal/api/dto"
	"site-intel-service/internal/county"
	"site-intel-service/internal/domain"
	"site-intel-service/internal/geo"
	"site-intel-service/internal/platform/metrics"
)

// GeoHandler exposes distance, area and location helpers for the map UI.
type GeoHandler struct {
	Profile county.Profile
	Metrics *metrics.Metrics
}

func (h *GeoHandler) Distance(w http.ResponseWriter, r *http.Request) {
	var req dto.DistanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.From.Validate(); err != nil {
		writeServiceError(w, r, "distance", err)
		return
	}
	if err := req.To.Validate(); err != nil {
		writeServiceError(w, r, "distance", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{Miles: geo.Distance(req.From, req.To)})
}

// Area measures a drawn polygon given as vertices or as GeoJSON.
// Self-intersecting rings are measured anyway and flagged in the response.
func (h *GeoHandler) Area(w http.ResponseWriter, r *http.Request) {
	var req dto.AreaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hasGeoJSON := len(req.GeoJSON) > 0 && string(req.GeoJSON) != "null"
	if hasGeoJSON && len(req.Vertices) > 0 {
		writeError(w, r, http.StatusBadRequest, "provide either vertices or geojson, not both")
		return
	}

	poly := domain.Polygon(req.Vertices)
	if hasGeoJSON {
		p, err := geo.PolygonFromGeoJSON(req.GeoJSON)
		if err != nil {
			h.Metrics.EstimateError(metrics.KindArea)
			writeServiceError(w, r, "polygon area", err)
			return
		}
		poly = p
	}

	acres, err := geo.PolygonAreaAcres(poly)
	if err != nil {
		h.Metrics.EstimateError(metrics.KindArea)
		writeServiceError(w, r, "polygon area", err)
		return
	}

	h.Metrics.Estimate(metrics.KindArea)
	writeJSON(w, r, http.StatusOK, dto.AreaResponse{
		Acres:            acres,
		Vertices:         len(poly),
		SelfIntersecting: geo.SelfIntersects(poly),
	})
}

func (h *GeoHandler) PathLength(w http.ResponseWriter, r *http.Request) {
	var req dto.PathLengthRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	miles, err := geo.PathLength(domain.Path(req.Points))
	if err != nil {
		writeServiceError(w, r, "path length", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PathLengthResponse{Miles: miles, Points: len(req.Points)})
}

// Context places a coordinate relative to the configured county.
func (h *GeoHandler) Context(w http.ResponseWriter, r *http.Request) {
	var c domain.Coordinate
	if !decodeJSON(w, r, &c) {
		return
	}

	lc, err := h.Profile.Locate(c)
	if err != nil {
		writeServiceError(w, r, "location context", err)
		return
	}

	writeJSON(w, r, http.StatusOK, lc)
}
