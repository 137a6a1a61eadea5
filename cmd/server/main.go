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

	"github.com/baxromumarov/campus-faq/internal/api"
	"github.com/baxromumarov/campus-faq/internal/config"
	"github.com/baxromumarov/campus-faq/internal/core"
	"github.com/baxromumarov/campus-faq/internal/knowledge"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	base, err := loadKnowledgeBase(cfg.KnowledgeBasePath)
	if err != nil {
		slog.Error("failed to load knowledge base", "error", err)
		os.Exit(1)
	}

	responder := core.NewResponder(base, core.WithLogger(logger))

	srv := api.NewServer(base, responder, api.Options{
		MaxMessageLength: cfg.MaxMessageLength,
		RequestTimeout:   cfg.RequestTimeout,
		Logger:           logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server",
		"port", cfg.Port,
		"env", cfg.Env,
		"topics", len(base.Topics()),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func loadKnowledgeBase(path string) (*knowledge.Base, error) {
	if path == "" {
		return knowledge.Default()
	}
	slog.Info("loading knowledge base", "path", path)
	return knowledge.Load(path)
}
