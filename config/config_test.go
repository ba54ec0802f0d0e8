package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LLM_PROVIDER", "GOOGLE_API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL",
		"TRANSLATOR", "TARGET_LANGUAGE", "MAX_IMAGE_DIMENSION", "UPSTREAM_TIMEOUT",
		"ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, TranslatorGoogle, cfg.Translator)
	assert.Equal(t, DefaultTranslateURL, cfg.TranslateURL)
	assert.Equal(t, "Brazilian Portuguese", cfg.TargetLanguage)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Zero(t, cfg.MaxImageDimension)
	assert.Zero(t, cfg.UpstreamTimeout)
	assert.Zero(t, cfg.RateLimitPerMinute)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TRANSLATOR", "none")
	t.Setenv("UPSTREAM_TIMEOUT", "45s")
	t.Setenv("MAX_IMAGE_DIMENSION", "1024")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, TranslatorNone, cfg.Translator)
	assert.Equal(t, 45*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 1024, cfg.MaxImageDimension)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Zero(t, cfg.RateLimitPerMinute)
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg := Load()
	assert.Equal(t, "gemini-key", cfg.GeminiAPIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "5000",
			LLMProvider:    ProviderGemini,
			GeminiAPIKey:   "key",
			Translator:     TranslatorGoogle,
			TargetLanguage: "Brazilian Portuguese",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid gemini", mutate: func(c *Config) {}},
		{name: "stub needs no key", mutate: func(c *Config) { c.LLMProvider = ProviderStub; c.GeminiAPIKey = "" }},
		{name: "missing gemini key", mutate: func(c *Config) { c.GeminiAPIKey = "" }, wantErr: "GOOGLE_API_KEY"},
		{name: "missing openai key", mutate: func(c *Config) { c.LLMProvider = ProviderOpenAI }, wantErr: "OPENAI_API_KEY"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLMProvider = "claude" }, wantErr: "unknown LLM_PROVIDER"},
		{name: "unknown translator", mutate: func(c *Config) { c.Translator = "deepl" }, wantErr: "unknown TRANSLATOR"},
		{name: "bad port", mutate: func(c *Config) { c.Port = "http" }, wantErr: "invalid PORT"},
		{name: "negative dimension", mutate: func(c *Config) { c.MaxImageDimension = -1 }, wantErr: "MAX_IMAGE_DIMENSION"},
		{name: "empty language", mutate: func(c *Config) { c.TargetLanguage = " " }, wantErr: "TARGET_LANGUAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
