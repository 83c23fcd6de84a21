package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServiceName identifies the process in health payloads.
const ServiceName = "Fusion 360 API Documentation MCP Server"

// NewRouter builds the chi router for the whole process. mcpHandler serves
// the MCP streamable HTTP transport under /mcp; sseHandler, if non-nil, is
// mounted at GET /events.
func NewRouter(version string, mcpHandler http.Handler, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Hosting platforms probe both / and /health.
	health := func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthBody{
			Status:  "healthy",
			Service: ServiceName,
			Version: version,
		})
	}
	r.Get("/", health)
	r.Get("/health", health)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/mcp", mcpHandler)
	r.Handle("/mcp/*", mcpHandler)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
