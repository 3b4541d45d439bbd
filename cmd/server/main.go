package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/sketchboard/internal/auth"
	"github.com/inamate/sketchboard/internal/board"
	"github.com/inamate/sketchboard/internal/config"
	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/session"
	"github.com/inamate/sketchboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	engineCfg := engine.DefaultConfig()
	engineCfg.IndexCapacity = cfg.IndexCapacity
	engineCfg.IndexMaxDepth = cfg.IndexMaxDepth
	engineCfg.DirtyMargin = cfg.DirtyMargin
	engineCfg.MinShapeSize = cfg.MinShapeSize
	engineCfg.Coalesce = cfg.CoalesceDirty

	tokens := auth.NewTokens(cfg.TokenSecret, auth.DefaultTTL)
	hub := session.NewHub()
	boardService := board.NewService(st, tokens, engineCfg, cfg.CanvasWidth, cfg.CanvasHeight)
	boardHandler := board.NewHandler(boardService, hub, st, cfg.Origins(),
		session.WithFrameInterval(cfg.FrameInterval))

	r := mux.NewRouter()
	r.Use(recovery)
	r.Use(logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	boardHandler.Routes(r, tokens)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Cancelling the base context stops every session, which saves
		// boards with unsaved changes.
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "persistent", cfg.DatabaseURL != "")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer drainCancel()
	if err := hub.Wait(drainCtx); err != nil {
		slog.Warn("sessions still open at exit", "error", err)
	}
}

func openStore(ctx context.Context, databaseURL string) (store.Store, func(), error) {
	if databaseURL == "" {
		slog.Warn("DATABASE_URL not set, boards are kept in memory")
		return store.NewMemoryStore(), func() {}, nil
	}

	pool, err := store.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgresStore(pool)
	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool.Close, nil
}
