package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"site-intel-service/internal/adapters/records"
	"site-intel-service/internal/domain"
	"site-intel-service/internal/platform/obs"

	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON encodes v before writing the status line so an encoding
// failure can still be reported as a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		obs.L().Error("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		b = []byte(`{"error":"internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
// It writes the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps domain and adapter errors onto HTTP statuses.
// Unexpected errors are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *domain.ValidationError
	var le *records.LookupError

	switch {
	case errors.As(err, &ve):
		writeError(w, r, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrDegeneratePolygon), errors.Is(err, domain.ErrDegeneratePath):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSiteNotFound):
		writeError(w, r, http.StatusNotFound, "site not found")
	case errors.Is(err, records.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "record not found")
	case errors.As(err, &le):
		obs.L().Warn(op+" failed", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "records backend unavailable")
	default:
		obs.L().Error(op+" failed", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
