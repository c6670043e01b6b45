package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	PolicyResilient = "resilient"
	PolicyStrict    = "strict"

	defaultOpenAIModel = "gpt-4.1-mini"
	defaultGeminiModel = "gemini-2.0-flash"

	minTemperature = 0.4
	maxTemperature = 0.5
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	DatabaseURL     string
	EnableDB        bool
	Provider        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	GeminiBaseURL   string
	Model           string
	Temperature     float64
	FailurePolicy   string
	ProviderTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		GinMode:       getEnv("GIN_MODE", "release"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		EnableDB:      strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		Provider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		Model:         os.Getenv("GUIDANCE_MODEL"),
		FailurePolicy: strings.ToLower(getEnv("GUIDANCE_FAILURE_POLICY", PolicyResilient)),
	}

	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return nil, fmt.Errorf("unsupported GIN_MODE %q", cfg.GinMode)
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = defaultOpenAIModel
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
		if cfg.Model == "" {
			cfg.Model = defaultGeminiModel
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.Provider)
	}

	temp, err := strconv.ParseFloat(getEnv("GUIDANCE_TEMPERATURE", "0.4"), 64)
	if err != nil {
		return nil, fmt.Errorf("parse GUIDANCE_TEMPERATURE: %w", err)
	}
	if temp < minTemperature || temp > maxTemperature {
		return nil, fmt.Errorf("GUIDANCE_TEMPERATURE must be between %.1f and %.1f, got %g", minTemperature, maxTemperature, temp)
	}
	cfg.Temperature = temp

	if cfg.FailurePolicy != PolicyResilient && cfg.FailurePolicy != PolicyStrict {
		return nil, fmt.Errorf("unsupported GUIDANCE_FAILURE_POLICY %q", cfg.FailurePolicy)
	}

	timeout, err := time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("parse PROVIDER_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	cfg.ProviderTimeout = timeout

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
