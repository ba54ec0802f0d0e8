package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderStub   = "stub"

	TranslatorGoogle = "google"
	TranslatorLLM    = "llm"
	TranslatorNone   = "none"

	DefaultTranslateURL = "https://translate.googleapis.com/translate_a/single"
)

// Config holds all configuration for the chat relay service
type Config struct {
	// Server configuration
	Port           string
	AllowedOrigins []string

	// Generation provider
	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Translation
	Translator     string
	TranslateURL   string
	TargetLanguage string

	// Images
	MaxImageDimension int

	// Upstream calls
	UpstreamTimeout time.Duration
	OutboundProxy   string

	// Rate limiting, 0 disables
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment take precedence over .env.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	return &Config{
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: getStringSliceEnv("ALLOWED_ORIGINS", "*"),

		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey:  getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", "")),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		Translator:     strings.ToLower(getEnv("TRANSLATOR", TranslatorGoogle)),
		TranslateURL:   getEnv("TRANSLATE_URL", DefaultTranslateURL),
		TargetLanguage: getEnv("TARGET_LANGUAGE", "Brazilian Portuguese"),

		MaxImageDimension: getIntEnv("MAX_IMAGE_DIMENSION", 0),

		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", 0),
		OutboundProxy:   getEnv("OUTBOUND_PROXY", ""),

		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate checks that the selected providers are known and have credentials.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY environment variable is required for provider %q", c.LLMProvider)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is required for provider %q", c.LLMProvider)
		}
	case ProviderStub:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.Translator {
	case TranslatorGoogle, TranslatorLLM, TranslatorNone:
	default:
		return fmt.Errorf("unknown TRANSLATOR %q", c.Translator)
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	if c.MaxImageDimension < 0 {
		return fmt.Errorf("MAX_IMAGE_DIMENSION must not be negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if strings.TrimSpace(c.TargetLanguage) == "" {
		return fmt.Errorf("TARGET_LANGUAGE must not be empty")
	}
	return nil
}

// getStringSliceEnv gets a comma-separated environment variable as a slice
func getStringSliceEnv(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warnf("Ignoring invalid duration %s=%q", key, value)
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warnf("Ignoring invalid integer %s=%q", key, value)
	}
	return defaultValue
}
