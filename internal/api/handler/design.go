package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/room-designer/internal/api/response"
	"github.com/Rrens/room-designer/internal/service"
)

// multipart overhead allowed on top of the image limit
const formOverhead = 1 << 20

// DesignHandler handles the room design workflow endpoints
type DesignHandler struct {
	designService  *service.DesignService
	maxUploadBytes int64
}

// NewDesignHandler creates a new design handler
func NewDesignHandler(designService *service.DesignService, maxUploadBytes int64) *DesignHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &DesignHandler{designService: designService, maxUploadBytes: maxUploadBytes}
}

// Upload stores a room photo and starts a new session
func (h *DesignHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		response.BadRequest(w, fmt.Sprintf("file too large or malformed form, maximum size is %d MB", h.maxUploadBytes>>20))
		return
	}

	file, _, err := r.FormFile("room_image")
	if err != nil {
		response.BadRequest(w, "no file uploaded, expected form field 'room_image'")
		return
	}
	defer file.Close()

	// one extra byte so the service can reject oversized files
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		response.BadRequest(w, "failed to read uploaded file")
		return
	}

	res, err := h.designService.Upload(r.Context(), data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Created(w, "Room image uploaded successfully. Session created.", res)
}

// GetSession returns the session state and workflow progress
func (h *DesignHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.designService.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, view)
}

// DeleteSession removes a session
func (h *DesignHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.designService.DeleteSession(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, "Session deleted successfully", map[string]string{"session_id": id})
}
