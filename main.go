package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-relay/config"
	"chat-relay/gemini"
	"chat-relay/handlers"
	"chat-relay/image"
	"chat-relay/llm"
	"chat-relay/metrics"
	"chat-relay/openai"
	"chat-relay/service"
	"chat-relay/stubllm"
	"chat-relay/translate"
	"chat-relay/utils"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/gin-gonic/gin"
)

const translateTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Info("Starting the chat relay...")
	metrics.Register()

	// Generation requests are bounded by UpstreamTimeout through the request
	// context; a client timeout would cut long streams.
	upstreamClient, err := utils.NewHTTPClient(cfg.OutboundProxy, 0)
	if err != nil {
		log.Fatalf("Failed to create upstream HTTP client: %v", err)
	}
	translateClient, err := utils.NewHTTPClient(cfg.OutboundProxy, translateTimeout)
	if err != nil {
		log.Fatalf("Failed to create translate HTTP client: %v", err)
	}

	generator, err := newGenerator(cfg, upstreamClient)
	if err != nil {
		log.Fatalf("Failed to create %s client: %v", cfg.LLMProvider, err)
	}

	relay := service.NewRelay(newTranslator(cfg, generator, translateClient), generator, service.Options{
		TargetLanguage:  cfg.TargetLanguage,
		Images:          image.Options{MaxDimension: cfg.MaxImageDimension},
		UpstreamTimeout: cfg.UpstreamTimeout,
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.NewHandlers(relay, generator.Name(), cfg.Translator), handlers.RouterConfig{
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":       cfg.Port,
			"provider":   generator.Name(),
			"translator": cfg.Translator,
			"language":   cfg.TargetLanguage,
			"rate_limit": cfg.RateLimitPerMinute,
		}).Info("Chat relay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetHandler(jsonhandler.New(os.Stderr))
	} else {
		log.SetHandler(text.New(os.Stderr))
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func newGenerator(cfg *config.Config, httpClient *http.Client) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, httpClient), nil
	case config.ProviderStub:
		return stubllm.NewClient(), nil
	default:
		return gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, httpClient)
	}
}

func newTranslator(cfg *config.Config, generator llm.Generator, httpClient *http.Client) translate.Translator {
	switch cfg.Translator {
	case config.TranslatorLLM:
		return translate.NewLLMTranslator(generator)
	case config.TranslatorNone:
		return translate.Noop{}
	default:
		return translate.NewGoogleTranslator(cfg.TranslateURL, httpClient)
	}
}
