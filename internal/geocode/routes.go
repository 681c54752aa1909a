package geocode

import (
	"net/http"

	"github.com/JBLarson/dayAndNight/internal/archive"
	"github.com/JBLarson/dayAndNight/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(service *Service, analytics *Analytics, archiver *archive.SnapshotArchiver, adminTokenHash string) http.Handler {
	h := &Handler{service: service, analytics: analytics, archiver: archiver}
	r := chi.NewRouter()

	r.Get("/search", h.SearchHandler)
	r.Get("/analytics", h.AnalyticsHandler)

	// The export surface dumps client IPs; keep it behind the admin token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminMiddleware(adminTokenHash))
		r.Get("/export", h.ExportHandler)
		r.Post("/export/archive", h.ArchiveHandler)
	})

	return r
}
