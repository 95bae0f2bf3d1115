// Package rest wires the HTTP surface of the artifact engine
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mythos-backend/infrastructure/config"
	"mythos-backend/interfaces/http/rest/handlers"
	"mythos-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg             *config.Config
	artifactHandler *handlers.ArtifactHandler
	versionHandler  *handlers.VersionHandler
	viewHandler     *handlers.ViewHandler
	logger          *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	artifactHandler *handlers.ArtifactHandler,
	versionHandler *handlers.VersionHandler,
	viewHandler *handlers.ViewHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:             cfg,
		artifactHandler: artifactHandler,
		versionHandler:  versionHandler,
		viewHandler:     viewHandler,
		logger:          logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.mythos.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Project-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg))

		r.Route("/artifacts", func(r chi.Router) {
			r.Post("/", rt.artifactHandler.CreateArtifact)
			r.Get("/", rt.artifactHandler.ListArtifacts)
			r.Get("/recent", rt.viewHandler.GetRecent)
			r.Get("/{key}", rt.artifactHandler.GetArtifact)
			r.Delete("/{key}", rt.artifactHandler.DeleteArtifact)
			r.Post("/{key}/ops", rt.artifactHandler.ApplyOperation)
			r.Post("/{key}/iterate", rt.artifactHandler.IterateArtifact)
			r.Post("/{key}/save", rt.artifactHandler.SaveArtifact)
			r.Get("/{key}/versions", rt.versionHandler.GetVersions)
			r.Post("/{key}/versions/{versionID}/restore", rt.versionHandler.RestoreVersion)
		})

		r.Route("/split-view", func(r chi.Router) {
			r.Get("/", rt.viewHandler.GetSplitView)
			r.Put("/", rt.viewHandler.SetSplitView)
			r.Delete("/", rt.viewHandler.ClearSplitView)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
