package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type LeadHandler struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface) *LeadHandler {
	return &LeadHandler{LeadRepo: leadRepo}
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.LeadRepo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leads")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"leads": leads, "count": len(leads)})
}
