package handlers

import (
	"fmt"
	"net/http"
	"time"

	"chat-relay/middleware"
	"chat-relay/models"

	"github.com/apex/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	EndPointChat       = "/api/chat"
	EndPointRegenerate = "/api/regenerate"
	EndPointHealth     = "/api/health"
	EndPointMetrics    = "/metrics"
)

type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
}

// NewRouter wires the relay endpoints with recovery, request logging, CORS
// and the optional per-IP rate limit.
func NewRouter(h *Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(recoverJSON))
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET(EndPointHealth, h.HealthCheck)
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	rateLimited := router.Group("/")
	rateLimited.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, time.Minute))
	{
		rateLimited.POST(EndPointChat, h.Chat)
		rateLimited.POST(EndPointRegenerate, h.Regenerate)
	}

	return router
}

// recoverJSON answers a recovered panic with the standard error payload.
func recoverJSON(c *gin.Context, recovered any) {
	log.WithField("panic", recovered).Error("request.panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewError(fmt.Sprint(recovered)))
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
