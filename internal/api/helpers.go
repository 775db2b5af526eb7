package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
)

// maxBodyBytes bounds request bodies; game submissions are small.
const maxBodyBytes = 64 * 1024

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewBadRequestError("malformed JSON body")
	}
	return nil
}
