package handler

import (
	"net/http"

	"github.com/Rrens/room-designer/internal/api/response"
	"github.com/Rrens/room-designer/internal/service"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles admin authentication
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles admin login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if !decode(w, r, &input) {
		return
	}

	tokens, err := h.authService.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, tokens)
}

// AdminHandler handles maintenance endpoints behind admin auth
type AdminHandler struct {
	designService *service.DesignService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(designService *service.DesignService) *AdminHandler {
	return &AdminHandler{designService: designService}
}

// ListSessions returns summaries of live sessions
func (h *AdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.designService.ListSessions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"total_sessions": len(sessions),
		"sessions":       sessions,
	})
}

// PurgeSessions deletes expired sessions
func (h *AdminHandler) PurgeSessions(w http.ResponseWriter, r *http.Request) {
	purged, err := h.designService.PurgeExpired(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"message": "expired sessions purged",
		"purged":  purged,
	})
}

// FlushCache clears cached search results from Redis
func (h *AdminHandler) FlushCache(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.designService.FlushSearchCache(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"message":      "cache flushed successfully",
		"keys_deleted": deleted,
	})
}
