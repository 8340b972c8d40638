package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"briefing/internal/api"
	"briefing/internal/config"
	"briefing/internal/listener"
	"briefing/internal/storage"
)

// briefing-server runs the submission API and the scheduled email scanner in
// one process.
func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handler := api.NewHandler(db)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewServer(handler, cfg.BriefingAPIKey),
	}

	go func() {
		slog.Info("api listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api server stopped", "error", err)
			cancel()
		}
	}()

	go func() {
		svc := listener.NewService(db, cfg)
		if err := svc.Run(ctx); err != nil {
			slog.Error("email listener stopped", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api shutdown", "error", err)
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
