// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-research-backend/internal/config"
	"ai-research-backend/internal/domain/ports/adapter"
	aiAdapters "ai-research-backend/internal/infra/adapters/ai"
	"ai-research-backend/internal/infra/adapters/arxiv"
	"ai-research-backend/internal/infra/extract"
	"ai-research-backend/internal/infra/logging"
	"ai-research-backend/internal/infra/metrics"
	"ai-research-backend/internal/infra/registry"
	"ai-research-backend/internal/infra/store"
	"ai-research-backend/internal/infra/web"
	"ai-research-backend/internal/infra/worker"
	"ai-research-backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop AI fallback, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, "")

	// ---- Storage ----
	results, err := store.NewFileStore(cfg.Research.ResultsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("result store")
	}
	jobs := registry.NewMemory()

	// ---- AI Adapter (Gemini -> OpenAI) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("AI adapter: noop (dev mode)")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}

	// ---- Retrieval stack ----
	papers := arxiv.NewClient(30 * time.Second)
	extractor := extract.NewPDFExtractor(cfg.Research.StaticDir, cfg.Research.MaxPages, cfg.Research.MinImageBytes, logger)

	// ---- Use cases ----
	retrievalUC := usecase.NewRetrievalUseCase(papers, extractor, cfg.Research.DownloadDir, cfg.Research.MaxResults, cfg.Research.MaxDeepPapers, logger)
	synthesisUC := usecase.NewSynthesisUseCase(ai, cfg.AI.DefaultModel, cfg.Research.ContextChars, logger)
	reportUC := usecase.NewReportUseCase(ai, retrievalUC, cfg.AI.DefaultModel, cfg.Research.ContextChars, logger)

	runner := worker.NewRunner(ctx)
	researchUC := usecase.NewResearchUseCase(jobs, results, retrievalUC, synthesisUC, reportUC, runner, logger)

	// ---- HTTP server ----
	srv := web.NewServer(researchUC, cfg.Research.StaticDir, version, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	// In-flight research jobs run to completion before exit.
	cancel()
	runner.Wait()
	logger.Info().Msg("stopped")
}
