package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/reportmerge/internal/api"
	"github.com/dgallion1/reportmerge/internal/config"
	"github.com/dgallion1/reportmerge/internal/llm"
	"github.com/dgallion1/reportmerge/internal/merge"
	"github.com/dgallion1/reportmerge/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// The LLM client exists only when a credential is configured.
	var claude *llm.ClaudeClient
	var completer merge.Completer
	if cfg.LLMEnabled() {
		claude = llm.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel,
			llm.WithStats(llm.NewStats(cfg.LLMStatsWindow)))
		completer = claude
	} else {
		log.Warn("ANTHROPIC_API_KEY not set; llm merge mode disabled")
	}

	opts, err := pipeline.ConfigOptions(cfg)
	if err != nil {
		log.Error("invalid report layout", "path", cfg.LayoutFile, "error", err)
		os.Exit(1)
	}
	p := pipeline.New(cfg, completer, log, opts...)
	srv := api.NewServer(p, claude, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if claude != nil {
			claude.Close()
		}
	}()

	log.Info("starting reportmerge",
		"port", cfg.Port,
		"merge_mode", cfg.MergeMode,
		"llm_enabled", cfg.LLMEnabled(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
