package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps service errors onto status codes. Anything unrecognised
// is a server fault.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ranking.ErrUnknownAlternative):
		status = http.StatusNotFound
	case errors.Is(err, ranking.ErrNoAlternatives),
		errors.Is(err, dataset.ErrNoRows),
		ranking.IsInvalidRequest(err),
		topsis.IsConfigError(err):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorBody(err.Error()))
}
