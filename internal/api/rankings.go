package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
)

type RankingsHandler struct {
	svc *ranking.Service
}

func NewRankingsHandler(svc *ranking.Service) *RankingsHandler {
	return &RankingsHandler{svc: svc}
}

// Create ranks the dataset. An empty body uses the configured weights.
func (h *RankingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ranking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if req.Filter != nil && req.Filter.Min > req.Filter.Max {
		writeJSON(w, http.StatusBadRequest, errorBody("filter min is greater than max"))
		return
	}

	report, err := h.svc.Rank(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type evaluateRequest struct {
	Matrix     [][]float64 `json:"matrix"`
	Weights    []float64   `json:"weights"`
	Directions []string    `json:"directions"`
}

// Evaluate exposes the engine directly on a caller-supplied matrix.
func (h *RankingsHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	ev, err := h.svc.Evaluate(req.Matrix, req.Weights, req.Directions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
