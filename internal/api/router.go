package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docsync/internal/services"
)

// Handler serves the HTTP and websocket surface over the domain services.
type Handler struct {
	docs     services.DocumentService
	edits    services.EditService
	sessions *services.SessionManager
	logger   *slog.Logger
}

func NewHandler(svc *services.Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		docs:     svc.Documents,
		edits:    svc.Edits,
		sessions: svc.Sessions,
		logger:   logger.With("component", "api"),
	}
}

// NewRouter mounts every route of h on a chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/documents", h.RegisterDocuments)
	r.Route("/api/edit", h.RegisterEdits)
	return r
}
