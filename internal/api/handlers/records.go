package handlers

import (
	"net/http"
	"strings"
	"time"

	"site-intel-service/internal/api/dto"
	"site-intel-service/internal/platform/metrics"
	"site-intel-service/internal/ports"
)

const recordDateLayout = "2006-01-02"

// RecordHandler proxies public record searches. Lookup is nil when no
// records backend is configured and every route answers 503.
type RecordHandler struct {
	Lookup  ports.RecordLookup
	Metrics *metrics.Metrics
}

func (h *RecordHandler) available(w http.ResponseWriter, r *http.Request) bool {
	if h.Lookup == nil {
		writeError(w, r, http.StatusServiceUnavailable, "records backend not configured")
		return false
	}
	return true
}

func (h *RecordHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	recs, err := h.Lookup.SearchByName(r.Context(), name, strings.TrimSpace(q.Get("type")))
	h.writeRecords(w, r, "search records by name", recs, err)
}

func (h *RecordHandler) SearchByProperty(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	q := r.URL.Query()
	propertyID := strings.TrimSpace(q.Get("property_id"))
	address := strings.TrimSpace(q.Get("address"))
	if propertyID == "" && address == "" {
		writeError(w, r, http.StatusBadRequest, "property_id or address is required")
		return
	}

	recs, err := h.Lookup.SearchByProperty(r.Context(), propertyID, address)
	h.writeRecords(w, r, "search records by property", recs, err)
}

func (h *RecordHandler) SearchByDate(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	q := r.URL.Query()
	start, err := time.Parse(recordDateLayout, q.Get("start"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start must be a date (YYYY-MM-DD)")
		return
	}
	end, err := time.Parse(recordDateLayout, q.Get("end"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "end must be a date (YYYY-MM-DD)")
		return
	}
	if end.Before(start) {
		writeError(w, r, http.StatusBadRequest, "end must not be before start")
		return
	}

	recs, err := h.Lookup.SearchByDateRange(r.Context(), start, end, strings.TrimSpace(q.Get("type")))
	h.writeRecords(w, r, "search records by date", recs, err)
}

func (h *RecordHandler) Document(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	doc, err := h.Lookup.GetDocument(r.Context(), r.PathValue("id"), strings.TrimSpace(r.URL.Query().Get("source")))
	h.Metrics.Lookup(err == nil)
	if err != nil {
		writeServiceError(w, r, "get document", err)
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}

func (h *RecordHandler) Types(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	types, err := h.Lookup.RecordTypes(r.Context())
	h.Metrics.Lookup(err == nil)
	if err != nil {
		writeServiceError(w, r, "record types", err)
		return
	}
	if types == nil {
		types = []string{}
	}
	writeJSON(w, r, http.StatusOK, dto.RecordTypesResponse{Types: types})
}

func (h *RecordHandler) writeRecords(w http.ResponseWriter, r *http.Request, op string, recs []ports.Record, err error) {
	h.Metrics.Lookup(err == nil)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	if recs == nil {
		recs = []ports.Record{}
	}
	writeJSON(w, r, http.StatusOK, dto.ListRecordsResponse{Records: recs})
}
