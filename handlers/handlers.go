package handlers

import (
	"io"
	"net/http"
	"time"

	"chat-relay/llm"
	"chat-relay/metrics"
	"chat-relay/middleware"
	"chat-relay/models"
	"chat-relay/service"
	"chat-relay/utils"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

const serviceName = "chat-relay"

type Handlers struct {
	relay      *service.Relay
	provider   string
	translator string
}

func NewHandlers(relay *service.Relay, provider, translator string) *Handlers {
	return &Handlers{
		relay:      relay,
		provider:   provider,
		translator: translator,
	}
}

// HealthCheck returns service health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    serviceName,
		"provider":   h.provider,
		"translator": h.translator,
	})
}

// Chat relays a user message and optional images to the generation provider,
// either as a single JSON response or as server-sent events.
func (h *Handlers) Chat(c *gin.Context) {
	start := time.Now()
	logger := middleware.Logger(c)

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithError(err).Warn("chat.bind")
		h.fail(c, "chat", err)
		return
	}

	logger.WithFields(log.Fields{
		"stream": req.Stream,
		"images": len(req.ImageURLs),
	}).Info("chat.request")

	if req.Stream {
		if h.stream(c, req) {
			observe("chat", "stream", start)
		}
		return
	}

	out, err := h.relay.Chat(c.Request.Context(), req.Message, req.ImageURLs)
	if err != nil {
		logger.WithError(err).Error("chat.generate")
		h.fail(c, "chat", err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccess(out))
	observe("chat", "success", start)
}

// stream reports false when the request failed with a JSON error instead of
// opening the event stream.
func (h *Handlers) stream(c *gin.Context, req models.ChatRequest) bool {
	logger := middleware.Logger(c)

	chunks, err := h.relay.ChatStream(c.Request.Context(), req.Message, req.ImageURLs)
	if err != nil {
		logger.WithError(err).Error("chat.stream.start")
		h.fail(c, "chat", err)
		return false
	}
	defer drain(chunks)

	// Hold the response until the first increment so an upstream failure
	// can still be reported as a JSON error.
	first, ok := firstChunk(chunks)
	if ok && first.Err != nil {
		logger.WithError(first.Err).Error("chat.stream.start")
		h.fail(c, "chat", first.Err)
		return false
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	if !ok {
		c.Writer.Flush()
		return true
	}
	if err := writeChunk(c.Writer, first.Text); err != nil {
		logger.WithError(err).Warn("chat.stream.write")
		return true
	}

	// The relay stream is bound to the request context, so a client
	// disconnect closes chunks.
	for chunk := range chunks {
		if chunk.Err != nil {
			logger.WithError(chunk.Err).Error("chat.stream.aborted")
			return true
		}
		if chunk.Text == "" {
			continue
		}
		if err := writeChunk(c.Writer, chunk.Text); err != nil {
			logger.WithError(err).Warn("chat.stream.write")
			return true
		}
	}
	return true
}

// Regenerate asks for an alternative answer to a previous message.
func (h *Handlers) Regenerate(c *gin.Context) {
	start := time.Now()
	logger := middleware.Logger(c)

	var req models.RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithError(err).Warn("regenerate.bind")
		h.fail(c, "regenerate", err)
		return
	}

	images := req.Images()
	logger.WithField("images", len(images)).Info("regenerate.request")

	out, err := h.relay.Regenerate(c.Request.Context(), req.PreviousMessage, images)
	if err != nil {
		logger.WithError(err).Error("regenerate.generate")
		h.fail(c, "regenerate", err)
		return
	}

	c.JSON(http.StatusOK, models.NewSuccess(out))
	observe("regenerate", "success", start)
}

func (h *Handlers) fail(c *gin.Context, endpoint string, err error) {
	metrics.RequestsTotal.WithLabelValues(endpoint, "error").Inc()
	c.JSON(http.StatusInternalServerError, models.NewError(err.Error()))
}

// firstChunk returns the first chunk carrying text or an error. ok is false
// when the stream ended without either.
func firstChunk(chunks <-chan llm.StreamChunk) (llm.StreamChunk, bool) {
	for chunk := range chunks {
		if chunk.Err != nil || chunk.Text != "" {
			return chunk, true
		}
	}
	return llm.StreamChunk{}, false
}

func drain(chunks <-chan llm.StreamChunk) {
	go func() {
		for range chunks {
		}
	}()
}

func writeChunk(w io.Writer, text string) error {
	if err := utils.WriteSSEChunk(w, models.StreamChunk{Chunk: text}); err != nil {
		return err
	}
	metrics.StreamChunksTotal.Inc()
	return nil
}

func observe(endpoint, result string, start time.Time) {
	metrics.RequestsTotal.WithLabelValues(endpoint, result).Inc()
	metrics.RequestDurationSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
