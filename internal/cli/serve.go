package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpadapter "mock-interview/internal/adapter/http"
	repo "mock-interview/internal/adapter/repository"
	"mock-interview/internal/config"
	"mock-interview/internal/infrastructure/migration"
	"mock-interview/internal/metrics"
	"mock-interview/internal/usecase"
	"mock-interview/internal/web"
	"mock-interview/pkg/ai"
	infra "mock-interview/pkg/infrastructure"
	"mock-interview/pkg/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		logger.Setup(cfg.Log.Level, cfg.Log.Format)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	gen, closeGen, err := newGenerator(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	defer closeGen()

	// Whisper is only reachable through OpenAI, whichever provider writes
	// the questions.
	stt := ai.NewOpenAITranscriber(
		ai.NewOpenAIClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, nil),
		cfg.LLM.TranscribeModel, cfg.LLM.TranscribeLanguage,
	)

	m := metrics.NewMetrics()
	interviews := usecase.NewInterviewService(store, gen, stt, cfg.Interview, m).WithTimeout(cfg.LLM.Timeout)

	views, err := web.NewPages(cfg.Interview.HardQuestionCount)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	exports := usecase.NewExportService(store, views, infra.NewChromedpRenderer(cfg.ChromePath), m)

	app := httpadapter.NewApp(httpadapter.NewHandler(interviews, exports, views), cfg.Server.MaxAudioBytes+1<<20)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("server listening", "addr", addr, "store", cfg.Store.Kind, "provider", cfg.LLM.Provider)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (usecase.SessionStore, func(), error) {
	switch cfg.Kind {
	case config.StorePostgres:
		pool, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := migration.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo.NewPostgresStore(pool), pool.Close, nil

	case config.StoreSQLite:
		db, err := infra.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := repo.NewSQLiteStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil

	case config.StoreRedis:
		rdb, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil

	default:
		slog.Warn("using in-memory session store, sessions are lost on restart")
		return repo.NewMemoryStore(), func() {}, nil
	}
}

func newGenerator(ctx context.Context, cfg config.LLMConfig) (usecase.Generator, func(), error) {
	if cfg.Provider == config.ProviderGemini {
		g, err := ai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	}
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set, upstream calls will fail")
	}
	client := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, nil)
	return ai.NewOpenAIGenerator(client, cfg.OpenAIModel), func() {}, nil
}
