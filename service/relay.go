package service

import (
	"context"
	"fmt"
	"time"

	"chat-relay/image"
	"chat-relay/llm"
	"chat-relay/metrics"
	"chat-relay/translate"

	"github.com/apex/log"
)

const (
	chatInstruction       = "You must always respond in %s. Here's the user message: "
	regenerateInstruction = "You must always respond in %s. Here's the message: "
)

// Options configures a Relay.
type Options struct {
	TargetLanguage  string
	Images          image.Options
	UpstreamTimeout time.Duration
}

// Relay composes translation, image decoding and generation for one request.
// It holds no per-request state and is safe for concurrent use.
type Relay struct {
	translator translate.Translator
	generator  llm.Generator
	opts       Options
}

func NewRelay(translator translate.Translator, generator llm.Generator, opts Options) *Relay {
	return &Relay{
		translator: translator,
		generator:  generator,
		opts:       opts,
	}
}

// Chat runs the pipeline and returns the full response.
func (r *Relay) Chat(ctx context.Context, message string, images []string) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	prompt := r.BuildPrompt(ctx, chatInstruction, message, images)
	out, err := r.generator.Generate(ctx, prompt, llm.ChatConfig)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return out, nil
}

// ChatStream runs the pipeline and returns the provider's increments.
// The returned channel is closed when generation ends.
func (r *Relay) ChatStream(ctx context.Context, message string, images []string) (<-chan llm.StreamChunk, error) {
	ctx, cancel := r.withTimeout(ctx)

	prompt := r.BuildPrompt(ctx, chatInstruction, message, images)
	upstream, err := r.generator.Stream(ctx, prompt, llm.ChatConfig)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	// Forward so the timeout context lives exactly as long as the stream.
	out := make(chan llm.StreamChunk)
	go func() {
		defer cancel()
		defer close(out)
		for chunk := range upstream {
			if !llm.Send(ctx, out, chunk) {
				return
			}
		}
	}()
	return out, nil
}

// Regenerate produces an alternative answer with a hotter sampling config.
func (r *Relay) Regenerate(ctx context.Context, previousMessage string, images []string) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	prompt := r.BuildPrompt(ctx, regenerateInstruction, previousMessage, images)
	out, err := r.generator.Generate(ctx, prompt, llm.RegenerateConfig)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return out, nil
}

// BuildPrompt translates message, prefixes the reply-language instruction
// and appends every image that decodes. Undecodable images are logged and
// dropped; the remaining ones keep their relative order.
func (r *Relay) BuildPrompt(ctx context.Context, instruction, message string, images []string) llm.Prompt {
	res := translate.ToEnglish(ctx, r.translator, message)
	if res.Fallback {
		metrics.TranslationFallbacksTotal.Inc()
	}
	log.WithFields(log.Fields{
		"original":   message,
		"translated": res.Text,
		"fallback":   res.Fallback,
	}).Debug("relay.translate")

	prompt := make(llm.Prompt, 0, len(images)+1)
	if res.Text != "" {
		prompt = append(prompt, llm.Part{Text: fmt.Sprintf(instruction, r.opts.TargetLanguage) + res.Text})
	}

	for i, result := range image.DecodeAll(ctx, images, r.opts.Images) {
		if result.Err != nil {
			metrics.ImageDecodeFailuresTotal.Inc()
			log.WithError(result.Err).WithField("index", i).Warn("relay.image.skipped")
			continue
		}
		prompt = append(prompt, llm.Part{InlineData: &llm.Blob{
			MIMEType: result.Image.MIMEType,
			Data:     result.Image.Data,
		}})
	}

	return prompt
}

func (r *Relay) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.UpstreamTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.UpstreamTimeout)
	}
	return context.WithCancel(ctx)
}
