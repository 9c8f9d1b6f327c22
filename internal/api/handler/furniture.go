package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/room-designer/internal/api/response"
	"github.com/Rrens/room-designer/internal/service"
)

type addFurnitureRequest struct {
	SessionID     string `json:"session_id" validate:"required"`
	FurnitureType string `json:"furniture_type" validate:"required"`
	Subtype       string `json:"subtype" validate:"required"`
}

type batchFurnitureRequest struct {
	SessionID     string                 `json:"session_id" validate:"required"`
	FurnitureList []service.FurnitureRef `json:"furniture_list" validate:"required,min=1"`
}

// AddFurniture adds one item after the capacity check
func (h *DesignHandler) AddFurniture(w http.ResponseWriter, r *http.Request) {
	var input addFurnitureRequest
	if !decode(w, r, &input) {
		return
	}

	res, err := h.designService.AddFurniture(r.Context(), input.SessionID, service.FurnitureRef{
		Category: input.FurnitureType,
		Subtype:  input.Subtype,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, fmt.Sprintf("%s added. Room usage: %.1f%%", res.Item.Subtype, res.UsagePercentage), res)
}

// AddFurnitureBatch adds several items or none
func (h *DesignHandler) AddFurnitureBatch(w http.ResponseWriter, r *http.Request) {
	var input batchFurnitureRequest
	if !decode(w, r, &input) {
		return
	}

	res, err := h.designService.AddFurnitureBatch(r.Context(), input.SessionID, input.FurnitureList)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, fmt.Sprintf("Added %d furniture items. Room usage: %.1f%%", res.Added, res.UsagePercentage), res)
}

// RemoveFurniture removes the item at the given index
func (h *DesignHandler) RemoveFurniture(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, "index must be an integer")
		return
	}

	res, err := h.designService.RemoveFurniture(r.Context(), chi.URLParam(r, "sessionID"), index)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, fmt.Sprintf("Removed %s", res.Removed.Subtype), res)
}

// FurnitureList returns the furniture list with occupancy figures
func (h *DesignHandler) FurnitureList(w http.ResponseWriter, r *http.Request) {
	res, err := h.designService.FurnitureList(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, res)
}

// FitCheck classifies how well the furniture fits
func (h *DesignHandler) FitCheck(w http.ResponseWriter, r *http.Request) {
	res, err := h.designService.FitCheck(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, res.Label, res)
}
