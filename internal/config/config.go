package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingToken     = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingDB        = errors.New("DATABASE_URL is required")
	ErrInvalidRateLimit = errors.New("RATE_LIMIT_PER_MINUTE must be positive")
)

type Config struct {
	Telegram  TelegramConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type DatabaseConfig struct {
	URL string
}

type LLMConfig struct {
	Provider   string
	OpenRouter OpenRouterConfig
	// 0 - таймаут транспорта по умолчанию
	Timeout time.Duration
}

// OpenRouterConfig: APIKey может быть пустым - тогда генерация черновиков
// отвечает ошибкой конфигурации, а не падает при старте.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Referer string
	Title   string
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Addr string
}

type CacheConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

// SeedConfig: демо-дела при старте. File пустой - встроенный набор.
type SeedConfig struct {
	Enabled bool
	File    string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
			Debug: getEnvBool("TELEGRAM_DEBUG"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", "openrouter"),
			OpenRouter: OpenRouterConfig{
				APIKey:  strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "deepseek/deepseek-chat"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
				Referer: getEnvOrDefault("OPENROUTER_REFERER", "https://github.com/kitbuilder587/casedraft"),
				Title:   getEnvOrDefault("OPENROUTER_TITLE", "Case Draft"),
			},
			Timeout: time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SEC", 0)) * time.Second,
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 300)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 5),
		},
		Seed: SeedConfig{
			Enabled: getEnvBool("SEED_CASES"),
			File:    os.Getenv("SEED_CASES_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	if c.Database.URL == "" {
		return ErrMissingDB
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

// LLMConfigured - есть ли ключ провайдера. Отсутствие ключа не ошибка конфигурации.
func (c *Config) LLMConfigured() bool {
	return c.LLM.OpenRouter.APIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
