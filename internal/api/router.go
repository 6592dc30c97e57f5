package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/apexeduai/vault-backend/internal/api/handlers"
	"github.com/apexeduai/vault-backend/internal/api/httpx"
	"github.com/apexeduai/vault-backend/internal/config"
	"github.com/apexeduai/vault-backend/internal/metrics"
	"github.com/apexeduai/vault-backend/internal/middleware"
)

// Deps carries everything the router mounts.
type Deps struct {
	Cfg      config.Config
	Auth     *handlers.AuthHandler
	Exams    *handlers.ExamHandler
	Payments *handlers.PaymentHandler
	Admin    *handlers.AdminHandler

	AuthMW  *middleware.AuthMiddleware
	AdminMW func(http.Handler) http.Handler

	// Static serves uploaded media when the disk store is active.
	Static http.Handler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recover,
		middleware.SecurityHeaders,
		middleware.RateLimit(d.Cfg.RateRPS),
		middleware.HTTPMetrics,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	if d.Static != nil {
		r.Handle("/static/*", d.Static)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// public
		r.Get("/ai-status", d.Exams.AIStatus)
		r.Post("/auth/login", d.Auth.Login)
		r.Post("/payments/upload-payment", d.Payments.Upload)
		r.Post("/payments/verify", d.Payments.Verify)

		// access-window holders
		r.Group(func(r chi.Router) {
			r.Use(d.AuthMW.Auth)
			r.Get("/auth/me", d.Auth.Me)
			r.Post("/auth/upload-avatar", d.Auth.UploadAvatar)
			r.Post("/auth/game-log", d.Auth.GameLog)
			r.Post("/exams/generate", d.Exams.Generate)
			r.Get("/exams/history", d.Exams.History)
			r.Get("/exams/{id}", d.Exams.Get)
		})

		// operators
		r.Route("/admin", func(r chi.Router) {
			r.Use(d.AdminMW)
			r.Get("/users", d.Admin.ListUsers)
			r.Post("/users/{id}/deactivate", d.Admin.DeactivateUser)
			r.Post("/users/{id}/extend", d.Admin.ExtendUser)
			r.Get("/game-logs", d.Admin.ListGameLogs)
			r.Post("/payments/add-dev-txn", d.Payments.AddTransaction)
			r.Get("/payments", d.Payments.List)
			r.Delete("/payments/{id}", d.Payments.Delete)
			r.Get("/transactions", d.Payments.ListTransactions)
		})
	})

	return r
}
