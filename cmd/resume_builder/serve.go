package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/enrich"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resumes"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the account, resume, enrichment and PDF export endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides http.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeFn, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	if deps.LLMKey == "" {
		logger.Warn("no API key for the enrichment provider; adapt and enhance will return 503",
			zap.String("provider", cfg.LLM.Provider))
	}

	return server.New(deps).Run(ctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout)
}

// buildDeps wires the storage, auth, enrichment and export collaborators of the server
func buildDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) (server.Deps, func(), error) {
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return server.Deps{}, nil, err
	}
	passwordConfig, err := cfg.Password()
	if err != nil {
		return server.Deps{}, nil, err
	}
	provider, err := llm.ParseProvider(cfg.LLM.Provider)
	if err != nil {
		return server.Deps{}, nil, err
	}

	llmConfig := llm.DefaultConfig(provider).WithModel(cfg.LLM.Model)
	if cfg.LLM.BaseURL != "" {
		llmConfig.BaseURL = cfg.LLM.BaseURL
	}

	st, closeFn, err := openMigrated(ctx, cfg.DatabaseURL)
	if err != nil {
		return server.Deps{}, nil, fmt.Errorf("failed to open database: %w", err)
	}

	gateway := enrich.NewGateway(llmConfig,
		enrich.WithTimeout(cfg.LLM.Timeout),
		enrich.WithLogger(logger.Named("enrich")))
	limiter := ratelimit.NewLimiter(ratelimit.EnrichmentConfig(
		cfg.RateLimit.Enabled, cfg.RateLimit.Limit, cfg.RateLimit.Window, cfg.RateLimit.Burst))

	deps := server.Deps{
		Resumes:      resumes.NewService(st),
		Users:        st,
		Password:     passwordConfig,
		JWT:          jwtConfig,
		Enricher:     gateway,
		Exporter:     rendering.NewPDFRenderer(cfg.Render.ChromePath, cfg.Render.Timeout, logger.Named("pdf")),
		Limiter:      limiter,
		LLMKey:       cfg.LLMAPIKey(),
		SecureCookie: cfg.HTTP.SecureCookie,
		Logger:       logger,
	}
	return deps, closeFn, nil
}
