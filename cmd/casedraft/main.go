package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/casedraft/internal/cache/memory"
	"github.com/kitbuilder587/casedraft/internal/config"
	"github.com/kitbuilder587/casedraft/internal/draft"
	"github.com/kitbuilder587/casedraft/internal/llm"
	llmMock "github.com/kitbuilder587/casedraft/internal/llm/mock"
	"github.com/kitbuilder587/casedraft/internal/llm/openrouter"
	"github.com/kitbuilder587/casedraft/internal/metrics"
	"github.com/kitbuilder587/casedraft/internal/repository/postgres"
	"github.com/kitbuilder587/casedraft/internal/service"
	"github.com/kitbuilder587/casedraft/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "casedraft: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	m := metrics.New(nil)

	caseCache := memory.NewWithContext(ctx)
	defer caseCache.Stop()

	cases := service.NewCaseService(service.CaseServiceDeps{
		Cases:   postgres.NewCaseRepo(db),
		Cache:   caseCache,
		TTL:     cfg.Cache.TTL,
		Logger:  logger,
		Metrics: m,
	})

	if cfg.Seed.Enabled {
		if err := importSeed(ctx, cfg.Seed, cases, logger); err != nil {
			return err
		}
	}

	client := newLLMClient(cfg, logger)
	drafts := service.NewDraftService(service.DraftServiceDeps{
		Cases:   cases,
		Drafter: draft.NewGenerator(client, draft.Config{Provider: cfg.LLM.Provider}, logger, m),
		Logger:  logger,
		Metrics: m,
	})

	bot, err := telegram.New(ctx, telegram.BotConfig{
		Token:             cfg.Telegram.Token,
		Debug:             cfg.Telegram.Debug,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	}, cases, drafts, logger, m)
	if err != nil {
		return err
	}

	logger.Info("starting casedraft",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("llm_configured", cfg.LLMConfigured()),
		zap.String("metrics_addr", cfg.Metrics.Addr),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := bot.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	srv := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("casedraft stopped")
	return err
}

func newLLMClient(cfg *config.Config, logger *zap.Logger) llm.Client {
	if cfg.LLM.Provider == "mock" {
		logger.Warn("using mock LLM provider, drafts are placeholders")
		return llmMock.New()
	}

	if !cfg.LLMConfigured() {
		logger.Warn("OPENROUTER_API_KEY is not set, draft requests will fail until it is configured")
	}

	client := openrouter.New(openrouter.Config{
		APIKey:  cfg.LLM.OpenRouter.APIKey,
		Model:   cfg.LLM.OpenRouter.Model,
		BaseURL: cfg.LLM.OpenRouter.BaseURL,
		Referer: cfg.LLM.OpenRouter.Referer,
		Title:   cfg.LLM.OpenRouter.Title,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	logger.Info("openrouter client ready", zap.String("model", client.Model()))
	return client
}

func importSeed(ctx context.Context, cfg config.SeedConfig, cases service.CaseService, logger *zap.Logger) error {
	var data []byte
	if cfg.File != "" {
		b, err := os.ReadFile(cfg.File)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}

	if _, err := service.ImportSeed(ctx, cases, data, logger); err != nil {
		return fmt.Errorf("import seed cases: %w", err)
	}
	return nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}
