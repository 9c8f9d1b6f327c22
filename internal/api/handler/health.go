package handler

import (
	"net/http"

	"github.com/Rrens/room-designer/internal/api/response"
	"github.com/Rrens/room-designer/internal/service"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status of the session store and object storage
func ReadyCheck(designService *service.DesignService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := designService.Ready(r.Context())
		if !ready.Ready {
			response.ErrorWithData(w, http.StatusServiceUnavailable, "dependencies not ready", ready)
			return
		}

		response.OK(w, map[string]any{
			"status": "ready",
			"checks": ready,
		})
	}
}
