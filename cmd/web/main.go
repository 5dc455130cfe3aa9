package main

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/crucial707/notehub/internal/apiclient"
	"github.com/crucial707/notehub/internal/middleware"
	"github.com/crucial707/notehub/internal/pagecache"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

//go:embed templates
var templatesFS embed.FS

const (
	defaultPort = "3000"
	defaultAPI  = "http://localhost:3001"
	envWebPort  = "NOTEHUB_WEB_PORT"
	envAPIURL   = "NOTEHUB_API_URL"
	envCacheTTL = "NOTEHUB_PAGE_CACHE_TTL"
)

// The page cache is shared by every visitor and only this process clears it,
// so writes made through the API or CLI show up once entries expire.
const defaultCacheTTL = 5 * time.Second

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)
	ttl := defaultCacheTTL
	if v := os.Getenv(envCacheTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Error("invalid page cache ttl", "value", v, "error", err)
			os.Exit(1)
		}
		ttl = d
	}

	a, err := newApp(apiclient.New(apiBase), pagecache.New(ttl))
	if err != nil {
		slog.Error("load templates", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("web UI running", "url", "http://localhost:"+port, "api", apiBase, "cache_ttl", ttl)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("web server failed", "error", err)
		os.Exit(1)
	}
}

// app is the server-rendered client: it holds no state of its own beyond the
// page cache, and every note operation goes through the API.
type app struct {
	api   *apiclient.Client
	cache *pagecache.Cache
	pages map[string]*template.Template
}

func newApp(api *apiclient.Client, cache *pagecache.Cache) (*app, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"notes.html", "edit.html", "login.html", "register.html"} {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return &app{api: api, cache: cache, pages: pages}, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.SecurityHeaders(middleware.PageContentSecurityPolicy, false))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/", a.listNotes)
	r.Get("/login", a.loginForm)
	r.Post("/login", a.loginSubmit)
	r.Get("/register", a.registerForm)
	r.Post("/register", a.registerSubmit)
	r.Get("/logout", a.logout)

	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Post("/notes", a.createNote)
		r.Get("/notes/{id}/edit", a.editForm)
		r.Post("/notes/{id}/edit", a.updateNote)
		r.Post("/notes/{id}/delete", a.deleteNote)
	})
	return r
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
