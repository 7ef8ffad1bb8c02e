package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// OCR provider names accepted in ocr.provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	Currency CurrencyConfig `mapstructure:"currency"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// OCRConfig selects and configures the text recognition provider
type OCRConfig struct {
	Provider string       `mapstructure:"provider"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CurrencyConfig holds normalization configuration
type CurrencyConfig struct {
	BaseCurrency  string             `mapstructure:"base_currency"`
	Endpoint      string             `mapstructure:"endpoint"`
	LookupTimeout time.Duration      `mapstructure:"lookup_timeout"`
	FallbackRates map[string]float64 `mapstructure:"fallback_rates"`
}

// StorageConfig holds upload storage configuration
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
}

// WorkerConfig bounds batch processing concurrency
type WorkerConfig struct {
	Count int `mapstructure:"count"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/receipts.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// OCR defaults
	viper.SetDefault("ocr.provider", ProviderOpenAI)
	viper.SetDefault("ocr.openai.model", "gpt-4o")
	viper.SetDefault("ocr.openai.timeout", 60*time.Second)
	viper.SetDefault("ocr.gemini.model", "gemini-1.5-flash")

	// Currency defaults
	viper.SetDefault("currency.base_currency", "GBP")
	viper.SetDefault("currency.endpoint", "https://api.exchangerate-api.com/v4/latest")
	viper.SetDefault("currency.lookup_timeout", 5*time.Second)

	// Storage defaults
	viper.SetDefault("storage.upload_dir", "data/uploads")

	// Worker defaults
	viper.SetDefault("worker.count", 4)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("ocr.openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("ocr.gemini.api_key", "GEMINI_API_KEY")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.OCR.Provider {
	case ProviderOpenAI:
		if c.OCR.OpenAI.APIKey == "" {
			return fmt.Errorf("ocr.openai.api_key is required")
		}
	case ProviderGemini:
		if c.OCR.Gemini.APIKey == "" {
			return fmt.Errorf("ocr.gemini.api_key is required")
		}
	default:
		return fmt.Errorf("unknown ocr.provider: %s", c.OCR.Provider)
	}

	if c.Currency.BaseCurrency == "" {
		return fmt.Errorf("currency.base_currency is required")
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker.count must be at least 1")
	}

	return nil
}
