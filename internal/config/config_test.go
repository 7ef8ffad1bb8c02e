package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	path := writeConfig(t, "ocr:\n  provider: openai\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "GBP", cfg.Currency.BaseCurrency)
	assert.Equal(t, 5*time.Second, cfg.Currency.LookupTimeout)
	assert.Equal(t, 4, cfg.Worker.Count)
	assert.Equal(t, "gpt-4o", cfg.OCR.OpenAI.Model)
	assert.Equal(t, "sk-test", cfg.OCR.OpenAI.APIKey)
}

func TestLoad_FallbackRates(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	path := writeConfig(t, `
ocr:
  provider: openai
currency:
  base_currency: USD
  fallback_rates:
    GBP: 1.27
    EUR: 1.08
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Currency.BaseCurrency)

	// viper lower-cases map keys; the converter canonicalizes them again,
	// so the config layer only guarantees case-insensitive presence.
	rates := make(map[string]float64, len(cfg.Currency.FallbackRates))
	for code, rate := range cfg.Currency.FallbackRates {
		rates[strings.ToUpper(code)] = rate
	}
	assert.Equal(t, 1.27, rates["GBP"])
	assert.Equal(t, 1.08, rates["EUR"])
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, "ocr:\n  provider: openai\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_GeminiProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-test")
	path := writeConfig(t, "ocr:\n  provider: gemini\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "g-test", cfg.OCR.Gemini.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.OCR.Gemini.Model)
}

func TestLoad_UnknownProvider(t *testing.T) {
	path := writeConfig(t, "ocr:\n  provider: tesseract\n")

	_, err := Load(path)
	assert.Error(t, err)
}
