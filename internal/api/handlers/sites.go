package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"site-intel-service/internal/api/dto"
	"site-intel-service/internal/county"
	"site-intel-service/internal/domain"
	"site-intel-service/internal/export"
	"site-intel-service/internal/ports"
	"site-intel-service/internal/services"
)

// SiteHandler manages saved estimates. Results are recomputed from the
// submitted inputs before they are stored.
type SiteHandler struct {
	Repo                ports.SiteRepository
	Profile             county.Profile
	SolarEstimator      *services.SolarEstimator
	DataCenterEstimator *services.DataCenterEstimator
}

func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	siteType, err := domain.ParseSiteType(strings.TrimSpace(r.URL.Query().Get("type")))
	if err != nil {
		writeServiceError(w, r, "list sites", err)
		return
	}

	sites, err := h.Repo.List(r.Context(), siteType)
	if err != nil {
		writeServiceError(w, r, "list sites", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListSitesResponse{Sites: nonNilSites(sites)})
}

func (h *SiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSiteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	site, err := h.buildSite(req)
	if err != nil {
		writeServiceError(w, r, "save site", err)
		return
	}

	saved, err := h.Repo.Save(r.Context(), site)
	if err != nil {
		writeServiceError(w, r, "save site", err)
		return
	}

	w.Header().Set("Location", "/sites/"+saved.ID)
	writeJSON(w, r, http.StatusCreated, saved)
}

func (h *SiteHandler) buildSite(req dto.CreateSiteRequest) (*domain.Site, error) {
	siteType, err := domain.ParseSiteType(strings.TrimSpace(req.Type))
	if err != nil {
		return nil, err
	}

	switch siteType {
	case domain.SiteTypeSolar:
		if req.Solar == nil || req.DataCenter != nil {
			return nil, &domain.ValidationError{Field: "solar", Reason: "payload required for solar site"}
		}
		res, err := h.SolarEstimator.Estimate(req.Solar.Inputs(), req.Solar.Coordinate)
		if err != nil {
			return nil, err
		}
		return domain.NewSolarSite(res, h.territory(res.Coordinate)), nil

	case domain.SiteTypeDataCenter:
		if req.DataCenter == nil || req.Solar != nil {
			return nil, &domain.ValidationError{Field: "datacenter", Reason: "payload required for datacenter site"}
		}
		res, err := h.DataCenterEstimator.Estimate(req.DataCenter.Inputs(), req.DataCenter.Coordinate)
		if err != nil {
			return nil, err
		}
		return domain.NewDataCenterSite(res, h.territory(res.Coordinate)), nil
	}

	return nil, &domain.ValidationError{Field: "type", Reason: "is required"}
}

func (h *SiteHandler) territory(c *domain.Coordinate) string {
	if c == nil {
		return ""
	}
	return h.Profile.Territory(*c)
}

func (h *SiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	site, err := h.Repo.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get site", err)
		return
	}
	writeJSON(w, r, http.StatusOK, site)
}

func (h *SiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete site", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SiteHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.Repo.Clear(r.Context())
	if err != nil {
		writeServiceError(w, r, "clear sites", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ClearSitesResponse{Deleted: n})
}

func (h *SiteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Repo.List(r.Context(), "")
	if err != nil {
		writeServiceError(w, r, "site stats", err)
		return
	}
	writeJSON(w, r, http.StatusOK, domain.ComputeStats(sites))
}

func (h *SiteHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, http.StatusBadRequest, "q is required")
		return
	}

	sites, err := h.Repo.Search(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, "search sites", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListSitesResponse{Sites: nonNilSites(sites)})
}

func (h *SiteHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Repo.List(r.Context(), "")
	if err != nil {
		writeServiceError(w, r, "export csv", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sites); err != nil {
		writeServiceError(w, r, "export csv", err)
		return
	}

	writeAttachment(w, "text/csv; charset=utf-8", "sites.csv", buf.Bytes())
}

func (h *SiteHandler) ExportGeoJSON(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Repo.List(r.Context(), "")
	if err != nil {
		writeServiceError(w, r, "export geojson", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteGeoJSON(&buf, sites); err != nil {
		writeServiceError(w, r, "export geojson", err)
		return
	}

	writeAttachment(w, "application/geo+json", "sites.geojson", buf.Bytes())
}

// Body is buffered before headers go out so a failed export still gets a 500.
func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func nonNilSites(s []*domain.Site) []*domain.Site {
	if s == nil {
		return []*domain.Site{}
	}
	return s
}
