package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"site-intel-service/internal/api/dto"
	"site-intel-service/internal/domain"
	"site-intel-service/internal/platform/metrics"
	"site-intel-service/internal/services"
)

const maxBatchEntries = 500

// EstimateHandler exposes the solar and data center calculators.
type EstimateHandler struct {
	SolarEstimator      *services.SolarEstimator
	DataCenterEstimator *services.DataCenterEstimator
	Metrics             *metrics.Metrics
	Workers             int
}

func (h *EstimateHandler) Solar(w http.ResponseWriter, r *http.Request) {
	var req dto.SolarEstimateRequest
	if !decodeJSON(w, r, &req) {
		h.Metrics.EstimateError(metrics.KindSolar)
		return
	}

	res, err := h.SolarEstimator.Estimate(req.Inputs(), req.Coordinate)
	if err != nil {
		h.Metrics.EstimateError(metrics.KindSolar)
		writeServiceError(w, r, "solar estimate", err)
		return
	}

	h.Metrics.Estimate(metrics.KindSolar)
	writeJSON(w, r, http.StatusOK, res)
}

func (h *EstimateHandler) DataCenter(w http.ResponseWriter, r *http.Request) {
	var req dto.DataCenterEstimateRequest
	if !decodeJSON(w, r, &req) {
		h.Metrics.EstimateError(metrics.KindDataCenter)
		return
	}

	res, err := h.DataCenterEstimator.Estimate(req.Inputs(), req.Coordinate)
	h.writeDataCenter(w, r, res, err)
}

// DataCenterCapacity sizes a facility from a target load in MW.
func (h *EstimateHandler) DataCenterCapacity(w http.ResponseWriter, r *http.Request) {
	var req dto.DataCenterCapacityRequest
	if !decodeJSON(w, r, &req) {
		h.Metrics.EstimateError(metrics.KindDataCenter)
		return
	}

	res, err := h.DataCenterEstimator.EstimateFromCapacity(strings.TrimSpace(req.Name), req.TargetMW, req.PUE, req.Coordinate)
	h.writeDataCenter(w, r, res, err)
}

func (h *EstimateHandler) writeDataCenter(w http.ResponseWriter, r *http.Request, res domain.DataCenterResult, err error) {
	if err != nil {
		h.Metrics.EstimateError(metrics.KindDataCenter)
		writeServiceError(w, r, "datacenter estimate", err)
		return
	}

	water, err := services.WaterCoolingFor(res.ITLoadKW)
	if err != nil {
		h.Metrics.EstimateError(metrics.KindDataCenter)
		writeServiceError(w, r, "datacenter estimate", err)
		return
	}

	h.Metrics.Estimate(metrics.KindDataCenter)
	writeJSON(w, r, http.StatusOK, dto.DataCenterEstimateResponse{
		DataCenterResult: res,
		PUETier:          services.PUETier(res.PUE),
		WaterCooling:     water,
	})
}

// SolarMinimum reports the acreage needed for min_mw of capacity
// (default services.DefaultMinimumMW).
func (h *EstimateHandler) SolarMinimum(w http.ResponseWriter, r *http.Request) {
	minMW := services.DefaultMinimumMW
	if raw := strings.TrimSpace(r.URL.Query().Get("min_mw")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "min_mw must be a number")
			return
		}
		minMW = v
	}

	acres, err := h.SolarEstimator.MinimumViableAcres(minMW)
	if err != nil {
		writeServiceError(w, r, "solar minimum", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.MinimumAcresResponse{MinMW: minMW, Acres: acres})
}

// CompareSizes estimates the same parcel name at several acreages.
func (h *EstimateHandler) CompareSizes(w http.ResponseWriter, r *http.Request) {
	var req dto.CompareSizesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Acres) == 0 {
		writeError(w, r, http.StatusBadRequest, "acres must not be empty")
		return
	}

	results, err := h.SolarEstimator.CompareSiteSizes(strings.TrimSpace(req.Name), req.Acres)
	if err != nil {
		h.Metrics.EstimateError(metrics.KindSolar)
		writeServiceError(w, r, "compare sizes", err)
		return
	}

	for range results {
		h.Metrics.Estimate(metrics.KindSolar)
	}
	writeJSON(w, r, http.StatusOK, dto.CompareSizesResponse{Results: results})
}

// Batch estimates many solar parcels and data center facilities
// concurrently. Individual failures are reported inline and do not fail
// the request.
func (h *EstimateHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchEstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	total := len(req.Parcels) + len(req.Facilities)
	if total == 0 {
		writeError(w, r, http.StatusBadRequest, "parcels or facilities must not be empty")
		return
	}
	if total > maxBatchEntries {
		writeError(w, r, http.StatusBadRequest, "batch must contain at most "+strconv.Itoa(maxBatchEntries)+" entries")
		return
	}

	solarJobs := make([]services.SolarJob, 0, len(req.Parcels))
	for _, p := range req.Parcels {
		solarJobs = append(solarJobs, services.SolarJob{Inputs: p.Inputs(), Coordinate: p.Coordinate})
	}
	dcJobs := make([]services.DataCenterJob, 0, len(req.Facilities))
	for _, f := range req.Facilities {
		dcJobs = append(dcJobs, services.DataCenterJob{Inputs: f.Inputs(), Coordinate: f.Coordinate})
	}

	solarOut, err := h.SolarEstimator.EstimateBatch(r.Context(), solarJobs, h.Workers)
	if err != nil {
		writeServiceError(w, r, "batch estimate", err)
		return
	}
	dcOut, err := h.DataCenterEstimator.EstimateBatch(r.Context(), dcJobs, h.Workers)
	if err != nil {
		writeServiceError(w, r, "batch estimate", err)
		return
	}

	res := dto.BatchEstimateResponse{
		Results:    make([]dto.BatchItem, 0, len(solarOut)),
		Facilities: make([]dto.BatchItem, 0, len(dcOut)),
	}
	for i, o := range solarOut {
		res.Results = append(res.Results, h.batchItem(&res, metrics.KindSolar, i, o.Result, o.Err))
	}
	for i, o := range dcOut {
		res.Facilities = append(res.Facilities, h.batchItem(&res, metrics.KindDataCenter, i, o.Result, o.Err))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *EstimateHandler) batchItem(res *dto.BatchEstimateResponse, kind string, i int, result any, err error) dto.BatchItem {
	if err != nil {
		h.Metrics.EstimateError(kind)
		res.Failed++
		return dto.BatchItem{Index: i, Error: err.Error()}
	}
	h.Metrics.Estimate(kind)
	res.Succeeded++
	return dto.BatchItem{Index: i, Result: result}
}
