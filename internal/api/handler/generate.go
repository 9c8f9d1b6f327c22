package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/room-designer/internal/api/response"
	"github.com/Rrens/room-designer/internal/service"
)

type generateRequest struct {
	SessionID      string   `json:"session_id" validate:"required"`
	Prompt         string   `json:"prompt"`
	FurnitureLinks []string `json:"furniture_links" validate:"omitempty,dive,url"`
}

type regenerateRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Prompt    string `json:"prompt" validate:"required"`
}

// Generate renders the selected furniture into the room photo
func (h *DesignHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input generateRequest
	if !decode(w, r, &input) {
		return
	}

	res, err := h.designService.Generate(r.Context(), input.SessionID, service.GenerateInput{
		Prompt:         input.Prompt,
		FurnitureLinks: input.FurnitureLinks,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, "Room design generated successfully", res)
}

// Regenerate renders again with a new prompt
func (h *DesignHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var input regenerateRequest
	if !decode(w, r, &input) {
		return
	}

	res, err := h.designService.Regenerate(r.Context(), input.SessionID, input.Prompt)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OKMessage(w, "Room design regenerated successfully", res)
}

// GenerateAsync queues generation on the background worker
func (h *DesignHandler) GenerateAsync(w http.ResponseWriter, r *http.Request) {
	var input generateRequest
	if !decode(w, r, &input) {
		return
	}

	taskID, err := h.designService.GenerateAsync(r.Context(), input.SessionID, service.GenerateInput{
		Prompt:         input.Prompt,
		FurnitureLinks: input.FurnitureLinks,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.Accepted(w, "Generation queued", map[string]string{
		"task_id":    taskID,
		"session_id": input.SessionID,
	})
}

// TaskStatus reports the state of a queued generation
func (h *DesignHandler) TaskStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.designService.TaskStatus(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, status)
}
