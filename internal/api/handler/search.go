package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/room-designer/internal/api/response"
)

type priceRangeRequest struct {
	SessionID string  `json:"session_id" validate:"required"`
	MinPrice  float64 `json:"min_price" validate:"gte=0"`
	MaxPrice  float64 `json:"max_price" validate:"gt=0"`
}

type sessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// SetPriceRange sets the search budget
func (h *DesignHandler) SetPriceRange(w http.ResponseWriter, r *http.Request) {
	var input priceRangeRequest
	if !decode(w, r, &input) {
		return
	}

	band, err := h.designService.SetPriceRange(r.Context(), input.SessionID, input.MinPrice, input.MaxPrice)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, fmt.Sprintf("Price range set: $%.2f - $%.2f", band.Min, band.Max), map[string]any{
		"min_price": band.Min,
		"max_price": band.Max,
	})
}

// Search finds furniture on the theme's vendor websites
func (h *DesignHandler) Search(w http.ResponseWriter, r *http.Request) {
	var input sessionRequest
	if !decode(w, r, &input) {
		return
	}

	res, err := h.designService.Search(r.Context(), input.SessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, fmt.Sprintf("Found %d furniture items from %d websites", res.Count, res.SearchedWebsites), res)
}

// ClearSearch drops stored search results
func (h *DesignHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.designService.ClearSearch(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, "Search results cleared", map[string]string{"session_id": id})
}
