package handlers

import (
	"net/http"

	"site-intel-service/internal/platform/metrics"
	"site-intel-service/internal/services"
)

type AFZHandler struct {
	Classifier *services.AFZClassifier
	Metrics    *metrics.Metrics
}

func (h *AFZHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var p services.AFZParcel
	if !decodeJSON(w, r, &p) {
		return
	}

	res, err := h.Classifier.Classify(p)
	if err != nil {
		h.Metrics.EstimateError(metrics.KindAFZ)
		writeServiceError(w, r, "afz classify", err)
		return
	}

	h.Metrics.Estimate(metrics.KindAFZ)
	writeJSON(w, r, http.StatusOK, res)
}
