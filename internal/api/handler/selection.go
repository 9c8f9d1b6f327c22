package handler

import (
	"fmt"
	"net/http"

	"github.com/Rrens/room-designer/internal/api/response"
)

type roomTypeRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	RoomType  string `json:"room_type" validate:"required"`
}

type themeRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Theme     string `json:"theme" validate:"required"`
}

type dimensionsRequest struct {
	SessionID string  `json:"session_id" validate:"required"`
	Length    float64 `json:"length" validate:"gt=0,lte=1000"`
	Width     float64 `json:"width" validate:"gt=0,lte=1000"`
	Height    float64 `json:"height" validate:"gt=0,lte=1000"`
}

// SelectRoomType sets the room type
func (h *DesignHandler) SelectRoomType(w http.ResponseWriter, r *http.Request) {
	var input roomTypeRequest
	if !decode(w, r, &input) {
		return
	}

	res, err := h.designService.SelectRoomType(r.Context(), input.SessionID, input.RoomType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, fmt.Sprintf("Room type '%s' selected. Choose from %d furniture types.", res.RoomType, len(res.AvailableFurniture)), res)
}

// SelectTheme sets the design theme
func (h *DesignHandler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	var input themeRequest
	if !decode(w, r, &input) {
		return
	}

	res, err := h.designService.SelectTheme(r.Context(), input.SessionID, input.Theme)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, fmt.Sprintf("Theme '%s' selected. Will search %d websites.", res.Theme, res.WebsiteCount), res)
}

// SetDimensions sets the room dimensions in feet
func (h *DesignHandler) SetDimensions(w http.ResponseWriter, r *http.Request) {
	var input dimensionsRequest
	if !decode(w, r, &input) {
		return
	}

	res, err := h.designService.SetDimensions(r.Context(), input.SessionID, input.Length, input.Width, input.Height)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, fmt.Sprintf("Room dimensions set: %gft x %gft x %gft = %.2f sq ft",
		res.Length, res.Width, res.Height, res.FloorAreaSqft), res)
}
