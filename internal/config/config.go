package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the deck generator.
type Config struct {
	DBPath     string
	OutputDir  string
	ServerPort int
	LogLevel   string

	LLMProvider string
	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string
	LLMTimeout  time.Duration

	GoogleAPIKey         string
	GoogleSearchAPIKey   string
	CustomSearchEngineID string

	SearchTimeout time.Duration
	ImageTimeout  time.Duration

	ThemePath string

	SentryDSN   string
	Environment string

	RateLimit RateLimitConfig

	ShutdownGrace time.Duration
}

// RateLimitConfig controls the HTTP rate limiter in serve mode.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

const (
	defaultDBPath        = "./data/deckgen.db"
	defaultOutputDir     = "./decks"
	defaultServerPort    = 8080
	defaultLogLevel      = "info"
	defaultEnvironment   = "development"
	defaultLLMProvider   = ProviderOpenRouter
	defaultLLMModel      = "gemini-2.5-flash"
	defaultLLMTimeout    = 2 * time.Minute
	defaultSearchTimeout = 10 * time.Second
	defaultImageTimeout  = 15 * time.Second
	defaultShutdownGrace = 10 * time.Second

	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 10
	defaultRateLimitTTL   = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:               getEnv("DB_PATH", defaultDBPath),
		OutputDir:            getEnv("OUTPUT_DIR", defaultOutputDir),
		LogLevel:             getEnv("LOG_LEVEL", defaultLogLevel),
		LLMProvider:          getEnv("LLM_PROVIDER", defaultLLMProvider),
		LLMEndpoint:          os.Getenv("LLM_ENDPOINT"),
		LLMAPIKey:            os.Getenv("LLM_API_KEY"),
		LLMModel:             getEnv("LLM_MODEL", defaultLLMModel),
		GoogleAPIKey:         os.Getenv("GOOGLE_API_KEY"),
		GoogleSearchAPIKey:   os.Getenv("GOOGLE_SEARCH_API_KEY"),
		CustomSearchEngineID: os.Getenv("CUSTOM_SEARCH_ENGINE_ID"),
		ThemePath:            os.Getenv("THEME_PATH"),
		SentryDSN:            os.Getenv("SENTRY_DSN"),
		Environment:          getEnv("ENV", defaultEnvironment),
		ShutdownGrace:        defaultShutdownGrace,
	}

	if cfg.LLMProvider != ProviderOpenRouter && cfg.LLMProvider != ProviderGemini {
		return nil, eris.Errorf("invalid LLM_PROVIDER value: %s", cfg.LLMProvider)
	}

	port, err := intEnv("SERVER_PORT", defaultServerPort)
	if err != nil {
		return nil, err
	}
	cfg.ServerPort = port

	cfg.LLMTimeout, err = durationEnv("LLM_TIMEOUT", defaultLLMTimeout)
	if err != nil {
		return nil, err
	}

	cfg.SearchTimeout, err = durationEnv("SEARCH_TIMEOUT", defaultSearchTimeout)
	if err != nil {
		return nil, err
	}

	cfg.ImageTimeout, err = durationEnv("IMAGE_TIMEOUT", defaultImageTimeout)
	if err != nil {
		return nil, err
	}

	rps, err := floatEnv("RATE_LIMIT_RPS", defaultRateLimitRPS)
	if err != nil {
		return nil, err
	}

	burst, err := intEnv("RATE_LIMIT_BURST", defaultRateLimitBurst)
	if err != nil {
		return nil, err
	}

	ttl, err := durationEnv("RATE_LIMIT_TTL", defaultRateLimitTTL)
	if err != nil {
		return nil, err
	}

	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: rps,
		Burst:             burst,
		ClientTTL:         ttl,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	return value, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	return value, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	return value, nil
}
