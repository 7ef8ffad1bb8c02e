package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/receipt-intake/internal/config"
	"github.com/garyjia/receipt-intake/internal/currency"
	"github.com/garyjia/receipt-intake/internal/export"
	"github.com/garyjia/receipt-intake/internal/ocr"
	"github.com/garyjia/receipt-intake/internal/receipt"
	"github.com/garyjia/receipt-intake/internal/repository"
	"github.com/garyjia/receipt-intake/internal/server"
	"github.com/garyjia/receipt-intake/internal/storage"
	"github.com/garyjia/receipt-intake/pkg/database"
	"github.com/garyjia/receipt-intake/pkg/utils"
)

func main() {
	// Pick up API keys from a local .env during development
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting receipt intake service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	uploads, err := storage.NewLocalFileStorage(cfg.Storage.UploadDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	recordRepo := repository.NewRecordRepository(db.DB, logger)
	fileRepo := repository.NewFileRepository(db.DB, logger)

	recognizer, err := buildRecognizer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize OCR provider", zap.Error(err))
	}

	rates := currency.NewExchangeRateClient(cfg.Currency.Endpoint, cfg.Currency.LookupTimeout, logger)
	converter := currency.NewConverter(rates, currency.Config{
		BaseCurrency:  cfg.Currency.BaseCurrency,
		LookupTimeout: cfg.Currency.LookupTimeout,
		FallbackRates: cfg.Currency.FallbackRates,
	}, logger)

	assembler := receipt.NewAssembler(converter, logger)
	processor := receipt.NewService(recognizer, assembler, cfg.Worker.Count, logger)

	handlers := server.NewHandlers(
		recordRepo,
		fileRepo,
		uploads,
		processor,
		assembler,
		export.NewCSVExporter(converter.BaseCurrency()),
		export.NewExcelExporter(converter.BaseCurrency(), logger),
		logger,
	)

	srv := server.NewServer(server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Server exited")
}

// buildRecognizer selects the configured OCR provider.
func buildRecognizer(cfg *config.Config, logger *zap.Logger) (ocr.Recognizer, error) {
	switch cfg.OCR.Provider {
	case config.ProviderOpenAI:
		return ocr.NewOpenAIRecognizer(cfg.OCR.OpenAI.APIKey, cfg.OCR.OpenAI.Model, logger), nil
	case config.ProviderGemini:
		return ocr.NewGeminiRecognizer(context.Background(),
			cfg.OCR.Gemini.APIKey, cfg.OCR.Gemini.Model, logger)
	default:
		return nil, fmt.Errorf("unknown ocr provider: %s", cfg.OCR.Provider)
	}
}
