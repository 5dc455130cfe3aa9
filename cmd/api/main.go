package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/notehub/internal/config"
	"github.com/crucial707/notehub/internal/db"
	"github.com/crucial707/notehub/internal/repo"
	"github.com/crucial707/notehub/internal/repo/memstore"
	"github.com/crucial707/notehub/internal/scheduler"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, closeStore, err := openStores(cfg)
	if err != nil {
		slog.Error("failed to open store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := scheduler.Run(ctx, cfg.StatsCron, scheduler.Stats{Notes: st.notes, Users: st.users}); err != nil {
			slog.Error("scheduler disabled", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(st, cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "store", cfg.Store, "tls", cfg.TLSCertFile != "")
		var err error
		if cfg.TLSCertFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func setupLogger(format string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openStores builds the configured backend. For postgres it applies pending
// migrations before connecting.
func openStores(cfg config.Config) (stores, func(), error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		return stores{
			users: memstore.NewUserStore(),
			notes: memstore.NewNoteStore(),
			audit: memstore.NewAuditStore(),
		}, func() {}, nil
	}

	if err := db.Run(cfg.DSN()); err != nil {
		return stores{}, nil, err
	}
	database, err := db.Connect(cfg.DSN(), db.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return stores{}, nil, err
	}
	slog.Info("connected to database")

	return stores{
		users: repo.NewUserRepo(database),
		notes: repo.NewNoteRepo(database),
		audit: repo.NewAuditRepo(database),
		ping:  database.PingContext,
	}, func() { database.Close() }, nil
}
