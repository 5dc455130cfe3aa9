package main

import (
	"context"
	"net/http"
	"time"

	"github.com/crucial707/notehub/internal/config"
	"github.com/crucial707/notehub/internal/handlers"
	"github.com/crucial707/notehub/internal/middleware"
	"github.com/crucial707/notehub/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// stores is the persistence layer handed to the services. ping is nil for the
// in-memory backend.
type stores struct {
	users service.UserStore
	notes service.NoteStore
	audit service.AuditStore
	ping  func(ctx context.Context) error
}

func newRouter(st stores, cfg config.Config) http.Handler {
	auth := service.NewAuthService(st.users, service.AuthOptions{
		Secret:     []byte(cfg.JWTSecret),
		TokenTTL:   time.Duration(cfg.JWTExpireHours) * time.Hour,
		BcryptCost: cfg.BcryptCost,
	})
	notes := service.NewNotesService(st.notes, st.users, st.audit)

	authH := &handlers.AuthHandler{Auth: auth}
	userH := &handlers.UserHandler{Users: auth}
	noteH := &handlers.NoteHandler{Notes: notes}
	auditH := &handlers.AuditHandler{Audit: notes}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(middleware.APIContentSecurityPolicy, cfg.TLSCertFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, handlers.MsgUnknownRoute, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, handlers.MsgMethodNotAllowed, http.StatusMethodNotAllowed)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if st.ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := st.ping(ctx); err != nil {
				handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public
	r.Post("/users", userH.Register)
	r.Post("/login", authH.Login)
	r.Get("/notes", noteH.ListNotes)
	r.Get("/notes/{id}", noteH.GetNote)

	// Bearer token required
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireToken(auth))
		r.Post("/notes", noteH.CreateNote)
		r.Put("/notes", noteH.UpdateNote)
		r.Put("/notes/{id}", noteH.UpdateNote)
		r.Delete("/notes/{id}", noteH.DeleteNote)
		r.Get("/audit", auditH.ListAudit)
	})

	return r
}
