package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/room-designer/internal/api/response"
)

// RoomTypes lists selectable room types
func (h *DesignHandler) RoomTypes(w http.ResponseWriter, r *http.Request) {
	types := h.designService.RoomTypes()
	response.OK(w, map[string]any{
		"room_types": types,
		"count":      len(types),
	})
}

// Themes lists design themes with their vendor websites
func (h *DesignHandler) Themes(w http.ResponseWriter, r *http.Request) {
	themes := h.designService.Themes()
	response.OK(w, map[string]any{
		"themes": themes,
		"count":  len(themes),
	})
}

// FurnitureTypes lists categories for the session's room type
func (h *DesignHandler) FurnitureTypes(w http.ResponseWriter, r *http.Request) {
	roomType, categories, err := h.designService.FurnitureTypes(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"room_type":       roomType,
		"furniture_types": categories,
		"count":           len(categories),
	})
}

// FurnitureSubtypes lists subtypes of a category with dimensions and area
func (h *DesignHandler) FurnitureSubtypes(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "furnitureType")
	subtypes, err := h.designService.FurnitureSubtypes(r.Context(), chi.URLParam(r, "sessionID"), category)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"furniture_type": category,
		"subtypes":       subtypes,
		"count":          len(subtypes),
	})
}
