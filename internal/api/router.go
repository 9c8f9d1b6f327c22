package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/api/handler"
	customMiddleware "github.com/Rrens/room-designer/internal/api/middleware"
	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/security"
	"github.com/Rrens/room-designer/internal/service"
)

// Deps are the collaborators the router mounts
type Deps struct {
	Design      *service.DesignService
	Auth        *service.AuthService
	JWT         *security.JWTManager
	RateLimiter customMiddleware.Limiter
	// Files serves locally stored images; nil unless the local storage driver is used
	Files http.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	designHandler := handler.NewDesignHandler(deps.Design, int64(cfg.Upload.MaxImageMB)<<20)
	adminHandler := handler.NewAdminHandler(deps.Design)

	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(deps.Design))

	if deps.Files != nil {
		r.Handle("/files/*", http.StripPrefix("/files", deps.Files))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
		}

		r.Post("/upload", designHandler.Upload)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", designHandler.GetSession)
			r.Delete("/", designHandler.DeleteSession)
		})

		r.Route("/options", func(r chi.Router) {
			r.Get("/room-types", designHandler.RoomTypes)
			r.Get("/themes", designHandler.Themes)
			r.Get("/furniture-types/{sessionID}", designHandler.FurnitureTypes)
			r.Get("/furniture-subtypes/{sessionID}/{furnitureType}", designHandler.FurnitureSubtypes)
		})

		r.Route("/selection", func(r chi.Router) {
			r.Post("/room-type", designHandler.SelectRoomType)
			r.Post("/theme", designHandler.SelectTheme)
			r.Post("/dimensions", designHandler.SetDimensions)
		})

		r.Route("/furniture", func(r chi.Router) {
			r.Post("/", designHandler.AddFurniture)
			r.Post("/batch", designHandler.AddFurnitureBatch)
			r.Get("/{sessionID}", designHandler.FurnitureList)
			r.Delete("/{sessionID}/{index}", designHandler.RemoveFurniture)
			r.Post("/{sessionID}/fit-check", designHandler.FitCheck)
		})

		r.Post("/price-range", designHandler.SetPriceRange)
		r.Post("/search", designHandler.Search)
		r.Delete("/search/{sessionID}", designHandler.ClearSearch)

		r.Post("/generate", designHandler.Generate)
		r.Post("/regenerate", designHandler.Regenerate)
		r.Post("/generate/async", designHandler.GenerateAsync)
		r.Get("/generate/tasks/{taskID}", designHandler.TaskStatus)

		if deps.Auth == nil || deps.JWT == nil {
			log.Warn().Msg("admin password hash not configured, admin routes disabled")
			return
		}

		authHandler := handler.NewAuthHandler(deps.Auth)
		authMiddleware := customMiddleware.NewAuthMiddleware(deps.JWT)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)

				r.Get("/sessions", adminHandler.ListSessions)
				r.Post("/sessions/purge", adminHandler.PurgeSessions)
				r.Post("/cache/flush", adminHandler.FlushCache)
			})
		})
	})

	return r
}
