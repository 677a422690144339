package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"adforge/internal/adapter/repo"
	"adforge/internal/branding"
	"adforge/internal/creative"
	"adforge/internal/http/handlers"
	"adforge/internal/http/httpapi"
	"adforge/internal/infra"
	"adforge/internal/infra/geoip"
	"adforge/internal/providers/genai"
	imageprovider "adforge/internal/providers/image"
	"adforge/internal/providers/prompt"
	"adforge/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver disabled")
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	var synthesizer prompt.Synthesizer = prompt.NewStaticSynthesizer()
	var textClient *genai.Client
	if cfg.GeminiAPIKey != "" {
		textClient, err = genai.NewClient(genai.Options{
			APIKey:     cfg.GeminiAPIKey,
			BaseURL:    cfg.GeminiBaseURL,
			Model:      cfg.GeminiTextModel,
			HTTPClient: httpClient,
			Logger:     &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure gemini client")
		}
		synthesizer = prompt.NewGeminiSynthesizer(textClient, nil)
	} else {
		logger.Warn().Msg("gemini api key missing, using static synthesis")
	}

	imageGen := imageprovider.NewGeminiGenerator(imageprovider.GeminiOptions{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiImageModel,
		HTTPClient: httpClient,
		Logger:     &logger,
	})

	workspaces := repo.NewWorkspaceRepository(pool)
	var textgen creative.TextGenerator
	if textClient != nil {
		textgen = textClient
	}
	expander := creative.NewExpander(textgen, logger)
	assembler := creative.NewAssembler(creative.AssemblerOptions{
		Repo:        workspaces,
		Expander:    expander,
		Images:      imageGen,
		Assets:      fileStore,
		Logger:      logger,
		TaskTimeout: cfg.UpstreamTimeout,
	})

	app := &handlers.App{
		Config:      cfg,
		Logger:      logger,
		Workspaces:  workspaces,
		Assembler:   assembler,
		Scraper:     branding.NewScraper(httpClient),
		Synthesizer: synthesizer,
	}

	router := httpapi.NewRouter(app, cfg, geo)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
