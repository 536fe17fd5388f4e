package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-idverify-api/internal/application/account"
	"github.com/go-idverify-api/internal/application/verification"
	"github.com/go-idverify-api/internal/config"
	"github.com/go-idverify-api/internal/transport/http/handler"
	appmiddleware "github.com/go-idverify-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the login endpoint.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	accountSvc := account.NewService(deps.UserRepo, deps.SessionRepo, deps.TokenProvider, deps.S3Store)
	notifier := verification.NewOpsNotifier(deps.Mailer, deps.SMSSender, cfg.OpsEmail, cfg.OpsPhone)
	verificationSvc := verification.NewService(deps.UserRepo, deps.S3Store, notifier)

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(accountSvc)
	verificationH := handler.NewVerificationHandler(verificationSvc)
	adminH := handler.NewAdminHandler(accountSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.TokenProvider, accountSvc))

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)
			r.Post("/verification", verificationH.Submit)
		})

		// ── Admin routes (static token) ──────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireAdminToken(cfg.AdminToken))

			r.Get("/admin/users", adminH.ListUsers)
		})
	})

	return r
}
