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

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/w7-autofill/internal/common"
	"github.com/joseph-ayodele/w7-autofill/internal/form"
	"github.com/joseph-ayodele/w7-autofill/internal/llm/openai"
	"github.com/joseph-ayodele/w7-autofill/internal/repository"
	"github.com/joseph-ayodele/w7-autofill/internal/server"
	"github.com/joseph-ayodele/w7-autofill/internal/session"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	audit, err := repository.OpenAudit(ctx, cfg.Audit.DSN, logger)
	if err != nil {
		logger.Error("opening audit store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := audit.Close(); err != nil {
			logger.Warn("closing audit store", "error", err)
		}
	}()

	sessions := session.NewStore(cfg.Session.TTL, logger)
	go sessions.Janitor(ctx, time.Minute)

	mapper := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	writer := form.NewWriter(cfg.Form.TemplatePath, cfg.Form.OutputDir, logger)

	svc := server.New(cfg, sessions, mapper, writer, audit, logger)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           svc.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr, "template", cfg.Form.TemplatePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
