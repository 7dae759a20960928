package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Topsis/internal/criteria"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
)

type CriteriaHandler struct {
	svc *ranking.Service
}

func NewCriteriaHandler(svc *ranking.Service) *CriteriaHandler {
	return &CriteriaHandler{svc: svc}
}

type criteriaResponse struct {
	Criteria  criteria.Set `json:"criteria"`
	MinWeight int          `json:"min_weight"`
	MaxWeight int          `json:"max_weight"`
}

func (h *CriteriaHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, criteriaResponse{
		Criteria:  h.svc.Criteria(),
		MinWeight: criteria.MinSliderWeight,
		MaxWeight: criteria.MaxSliderWeight,
	})
}
