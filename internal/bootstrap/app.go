// Package bootstrap assembles the configured application from its parts.
package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"competitive-analysis/internal/analysis"
	"competitive-analysis/internal/config"
	"competitive-analysis/internal/diagnostics"
	"competitive-analysis/internal/domain"
	"competitive-analysis/internal/gemini"
	"competitive-analysis/internal/report"
	"competitive-analysis/internal/scrape"
	"competitive-analysis/internal/search"
	"competitive-analysis/internal/server"
)

// App is the fully wired service, ready to run.
type App struct {
	logger *zap.Logger
	server *server.Server
}

// New builds the app serving the frontend from disk.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the app serving the frontend from an embedded FS.
// Startup diagnostics run here; failures are logged but never block
// startup, so a misconfigured instance still answers health checks.
func NewWithAssets(assets fs.FS) (*App, error) {
	settings, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	diag := diagnostics.NewChecker().Run(settings)
	for _, item := range diag.Items {
		switch item.Status {
		case domain.DiagnosticStatusFail:
			logger.Error("startup check failed", zap.String("check", item.ID), zap.String("message", item.Message), zap.String("hint", item.Hint))
		case domain.DiagnosticStatusWarn:
			logger.Warn("startup check degraded", zap.String("check", item.ID), zap.String("message", item.Message))
		}
	}

	pipeline := analysis.NewPipeline(
		search.NewService(settings.MaxCompetitors, logger),
		scrape.NewScraper(logger),
		gemini.NewClient(settings.GeminiAPIKey, settings.GeminiModel),
		report.NewGenerator(settings.ReportsDir),
		logger,
	)

	return &App{
		logger: logger,
		server: server.New(settings, logger, pipeline, diag, assets),
	}, nil
}

// Run serves until an interrupt or termination signal arrives.
func (a *App) Run() error {
	defer a.logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.server.Run(ctx)
}
