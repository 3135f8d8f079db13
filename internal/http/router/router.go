// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/maildesk/internal/app"
	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	"github.com/dropDatabas3/maildesk/internal/http/handlers"
	"github.com/dropDatabas3/maildesk/internal/http/metrics"
	mw "github.com/dropDatabas3/maildesk/internal/http/middlewares"
	"github.com/dropDatabas3/maildesk/internal/rate"
)

// Deps contiene las dependencias para armar el handler raíz.
type Deps struct {
	Container    *app.Container
	LoginLimiter rate.Limiter // opcional: rate limit por IP en /api/login
	Metrics      http.Handler // opcional: handler para /metrics
}

// New arma el router completo: middlewares globales, login abierto y el
// resto de /api detrás del gate de autenticación.
func New(deps Deps) http.Handler {
	c := deps.Container

	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		metrics.WithMetrics(),
		mw.WithLogging(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Get("/readyz", handlers.NewReadyzHandler())
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// Login: único endpoint de negocio sin gate
	r.With(mw.WithRateLimit(deps.LoginLimiter)).
		Post("/api/login", handlers.NewLoginHandler(c))

	// Rutas protegidas: toda operación mutante o de lectura sensible
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth(c.Issuer))

		pr.Post("/api/admin/change-password", handlers.NewChangePasswordHandler(c))

		pr.Get("/api/smtp", handlers.NewGetSMTPHandler(c))
		pr.Post("/api/smtp", handlers.NewSaveSMTPHandler(c))
		pr.Post("/api/smtp/test", handlers.NewTestSMTPHandler(c))

		pr.Post("/api/send", handlers.NewSendHandler(c))

		pr.Get("/api/templates", handlers.NewListTemplatesHandler(c))
		pr.Post("/api/templates", handlers.NewCreateTemplateHandler(c))
		pr.Delete("/api/templates", handlers.NewDeleteTemplateHandler(c))
	})

	return r
}
