package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
)

type AlternativesHandler struct {
	svc *ranking.Service
}

func NewAlternativesHandler(svc *ranking.Service) *AlternativesHandler {
	return &AlternativesHandler{svc: svc}
}

type alternativesResponse struct {
	Columns      []string              `json:"columns"`
	Alternatives []dataset.Alternative `json:"alternatives"`
	// Ranges are taken over the whole dataset so clients can draw filter bounds.
	Ranges []dataset.Range `json:"ranges"`
	Shown  int             `json:"shown"`
	Total  int             `json:"total"`
}

// List returns the dataset, optionally restricted by
// ?criterion=<name>&min=<v>&max=<v>. A missing bound is open.
func (h *AlternativesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	full, err := h.svc.Dataset(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	shown := full
	if filter != nil {
		if shown, err = full.Filter(*filter); err != nil {
			writeError(w, err)
			return
		}
	}

	alts := shown.Alternatives
	if alts == nil {
		alts = []dataset.Alternative{}
	}
	writeJSON(w, http.StatusOK, alternativesResponse{
		Columns:      full.Columns,
		Alternatives: alts,
		Ranges:       full.Ranges(),
		Shown:        shown.Len(),
		Total:        full.Len(),
	})
}

func (h *AlternativesHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context(), chi.URLParam(r, "label"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func parseFilter(r *http.Request) (*dataset.RangeFilter, error) {
	q := r.URL.Query()
	name := q.Get("criterion")
	if name == "" {
		return nil, nil
	}
	f := &dataset.RangeFilter{Criterion: name, Min: math.Inf(-1), Max: math.Inf(1)}
	if v := q.Get("min"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid min %q", v)
		}
		f.Min = n
	}
	if v := q.Get("max"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid max %q", v)
		}
		f.Max = n
	}
	if f.Min > f.Max {
		return nil, fmt.Errorf("min %v is greater than max %v", f.Min, f.Max)
	}
	return f, nil
}
