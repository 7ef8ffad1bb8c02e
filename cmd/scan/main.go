// Command scan runs a directory of receipt images through OCR and
// extraction and writes the resulting CSV without starting the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/receipt-intake/internal/config"
	"github.com/garyjia/receipt-intake/internal/currency"
	"github.com/garyjia/receipt-intake/internal/export"
	"github.com/garyjia/receipt-intake/internal/ocr"
	"github.com/garyjia/receipt-intake/internal/receipt"
	"github.com/garyjia/receipt-intake/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	var (
		configPath = flag.String("config", "configs/config.yaml", "path to config file")
		dir        = flag.String("dir", ".", "directory of receipt images to scan")
		employee   = flag.String("employee", "", "employee name stamped on every record")
		output     = flag.String("out", "", "output CSV path (default stdout)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stderr",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	files, err := collectFiles(*dir, *employee)
	if err != nil {
		logger.Fatal("Failed to read scan directory", zap.Error(err))
	}
	if len(files) == 0 {
		logger.Fatal("No receipt files found", zap.String("dir", *dir))
	}

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
	service := receipt.NewService(recognizer, assembler, cfg.Worker.Count, logger)

	logger.Info("Scanning receipts",
		zap.Int("files", len(files)),
		zap.String("dir", *dir))

	records := service.ProcessBatch(context.Background(), files)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			logger.Fatal("Failed to create output file", zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	exporter := export.NewCSVExporter(converter.BaseCurrency())
	if err := exporter.Write(out, records); err != nil {
		logger.Fatal("Failed to write CSV", zap.Error(err))
	}
}

// supported upload extensions, matching what the OCR providers accept
var scanExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

func collectFiles(dir, employee string) ([]receipt.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []receipt.File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !scanExtensions[ext] {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		contentType := mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		files = append(files, receipt.File{
			Name:        entry.Name(),
			Employee:    employee,
			ContentType: contentType,
			Data:        data,
		})
	}
	return files, nil
}

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
