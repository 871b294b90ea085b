package httpapi

import (
	stdhttp "net/http"
	"time"

	"server/internal/http/handlers"
	appmw "server/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions carries the cross-cutting settings the router needs beyond the
// handler container itself.
type RouterOptions struct {
	JWTSecret       string
	CORSOrigins     []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		appmw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		appmw.Logger(app.Logger),
		appmw.CORS(opts.CORSOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Get("/v1/layouts", app.LayoutsList)

	// Public lead-capture surface. Rate limited because it takes anonymous traffic.
	r.Route("/v1/public/documents/{id}", func(r chi.Router) {
		if opts.RateLimitPerMin > 0 {
			r.Use(appmw.RateLimit(opts.RateLimitPerMin, time.Minute))
		}
		r.Post("/leads", app.LeadsCapture)
		r.Get("/download", app.DocumentsDownload)
	})

	// Owner surface.
	r.Group(func(r chi.Router) {
		r.Use(appmw.AuthJWT(opts.JWTSecret))

		r.Route("/v1/documents", func(r chi.Router) {
			r.Post("/", app.DocumentsCreate)
			r.Get("/", app.DocumentsList)
			r.Get("/{id}", app.DocumentsGet)
			r.Post("/{id}/generate", app.DocumentsGenerate)
			r.Get("/{id}/generate/status", app.DocumentsGenerateStatus)
			r.Get("/{id}/leads", app.LeadsList)
		})

		r.Get("/v1/jobs/{id}", app.JobStatus)

		r.Route("/v1/firm-profile", func(r chi.Router) {
			r.Get("/", app.FirmProfileGet)
			r.Put("/", app.FirmProfilePut)
		})

		r.Post("/v1/slogans", app.SlogansCreate)
		r.Get("/v1/dashboard/stats", app.StatsDashboard)
	})

	return r
}
