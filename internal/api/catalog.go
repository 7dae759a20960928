package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Topsis/internal/criteria"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

// CatalogHandler edits the alternative catalog. Every change invalidates
// the local dataset cache and is announced on hermes so other instances
// drop theirs.
type CatalogHandler struct {
	store      store.Store
	hermes     hermes.Client
	criteria   criteria.Set
	invalidate func()
	logger     *slog.Logger
}

func NewCatalogHandler(s store.Store, h hermes.Client, set criteria.Set, invalidate func(), logger *slog.Logger) *CatalogHandler {
	if h == nil {
		h = hermes.NopClient{}
	}
	if invalidate == nil {
		invalidate = func() {}
	}
	return &CatalogHandler{store: s, hermes: h, criteria: set, invalidate: invalidate, logger: logger}
}

type upsertRequest struct {
	Attributes map[string]float64 `json:"attributes"`
	ImageURL   string             `json:"image_url,omitempty"`
}

// Get returns the stored catalog record, including attributes outside the
// configured criteria.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	alt, err := h.store.GetAlternative(r.Context(), chi.URLParam(r, "label"))
	if err != nil {
		writeError(w, err)
		return
	}
	if alt == nil {
		writeJSON(w, http.StatusNotFound, errorBody("alternative not found"))
		return
	}
	writeJSON(w, http.StatusOK, alt)
}

func (h *CatalogHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimSpace(chi.URLParam(r, "label"))
	if label == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("label is required"))
		return
	}
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := h.checkAttributes(req.Attributes); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	alt := &store.Alternative{Label: label, Attributes: req.Attributes, ImageURL: req.ImageURL}
	if err := h.store.UpsertAlternative(r.Context(), alt); err != nil {
		writeError(w, err)
		return
	}
	h.changed(label, hermes.CatalogActionUpserted)
	writeJSON(w, http.StatusOK, alt)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	removed, err := h.store.DeleteAlternative(r.Context(), label)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorBody("alternative not found"))
		return
	}
	h.changed(label, hermes.CatalogActionDeleted)
	w.WriteHeader(http.StatusNoContent)
}

// checkAttributes requires a finite value for every configured criterion so
// the catalog always loads as a complete dataset.
func (h *CatalogHandler) checkAttributes(attrs map[string]float64) error {
	for _, c := range h.criteria {
		v, ok := attrs[c.Name]
		if !ok {
			return fmt.Errorf("missing value for criterion %q", c.Name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value for criterion %q is not finite", c.Name)
		}
	}
	return nil
}

func (h *CatalogHandler) changed(label, action string) {
	h.invalidate()
	err := h.hermes.Publish(hermes.SubjectCatalogUpdated, hermes.CatalogUpdatedEvent{
		Label:     label,
		Action:    action,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Warn("failed to publish catalog update", "label", label, "error", err)
	}
	h.logger.Info("catalog updated", "label", label, "action", action)
}
