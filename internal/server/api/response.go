package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
)

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any, log logging.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(context.Background(), "failed to encode JSON response", "error", err)
	}
}

// writeError writes {"error": message}.
func writeError(w http.ResponseWriter, status int, message string, log logging.Logger) {
	writeJSON(w, status, errorBody{Error: message}, log)
}

// writeServiceError maps an error from the service layer onto a status code
// and a stable message. Details were logged by the service already.
func writeServiceError(w http.ResponseWriter, err error, log logging.Logger) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid request", log)
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", log)
	case errors.Is(err, common.ErrConnection):
		writeError(w, http.StatusServiceUnavailable, "database unavailable, try again later", log)
	default:
		writeError(w, http.StatusInternalServerError, "internal server error", log)
	}
}
