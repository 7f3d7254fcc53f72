package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/svgjww/viewer/internal/asset"
	"github.com/svgjww/viewer/internal/config"
	mw "github.com/svgjww/viewer/internal/middleware"
	"github.com/svgjww/viewer/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := ""
	if cfg.DocumentPath != "" {
		source = filepath.Base(cfg.DocumentPath)
	}
	hub := watch.NewHub(source, cfg.OriginPatterns())
	go hub.Run(ctx)

	if cfg.DocumentPath != "" {
		watcher, err := watch.NewWatcher(cfg.DocumentPath, hub, cfg.Parser())
		if err != nil {
			slog.Error("watch document", "error", err, "path", cfg.DocumentPath)
			os.Exit(1)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("document watcher stopped", "error", err)
			}
		}()
	}

	assetHandler := asset.NewHandler(cfg.AssetDir)
	r := newRouter(cfg, hub, assetHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "document", cfg.DocumentPath, "parser", cfg.ParserCommand)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newRouter(cfg *config.Config, hub *watch.Hub, assets *asset.Handler) *mux.Router {
	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Live document
	r.Handle("/api/document", documentHandler(hub)).Methods("GET")
	r.Handle("/ws/watch", hub)

	// Image substitution
	r.HandleFunc("/assets/upload", assets.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assets.Serve()).Methods("GET")
	r.HandleFunc("/api/images", assets.List).Methods("GET")
	r.HandleFunc("/api/images/{assetId}", deleteAssetHandler(assets)).Methods("DELETE")

	// Viewer page and wasm bundle
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods("GET")

	return r
}
