package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/teamops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/teamops-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the settings the router needs from the app config.
type RouterConfig struct {
	AllowedOrigins []string
	LogLevel       slog.Level
	// FilesDir is served under /files/. Empty disables static file serving.
	FilesDir string
}

func NewRouter(
	cfg RouterConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	teamMemberHandler TeamMemberHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.FilesDir != "" {
		fs := http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.FilesDir)))
		r.Get("/files/*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/team-members", func(r chi.Router) {
			r.Get("/", teamMemberHandler.List)
			r.Post("/", teamMemberHandler.Create)
		})

		r.Route("/attendances", func(r chi.Router) {
			r.Get("/", attendanceHandler.List)
			r.Post("/", attendanceHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", attendanceHandler.Get)
				r.Put("/", attendanceHandler.Update)
				r.Delete("/", attendanceHandler.Delete)
			})
		})

		r.Route("/reports/attendance", func(r chi.Router) {
			r.Get("/", reportHandler.GetAttendanceReport)
			r.Get("/export", reportHandler.ExportAttendanceReport)
			r.Post("/archive", reportHandler.ArchiveAttendanceReport)
			r.Get("/trend", reportHandler.GetStatusTrend)
		})
	})
	return r
}
