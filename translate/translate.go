package translate

import (
	"context"
	"strings"

	"github.com/apex/log"
)

const English = "en"

// Translator converts text into the target language (ISO 639-1 code).
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Result is the outcome of a fail-open translation. When Fallback is true,
// Text holds the original input and Err the provider failure.
type Result struct {
	Text     string
	Fallback bool
	Err      error
}

// ToEnglish translates text to English and never fails: on any provider
// error the original text is returned with Fallback set.
func ToEnglish(ctx context.Context, t Translator, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text}
	}

	translated, err := t.Translate(ctx, text, English)
	if err != nil {
		log.WithError(err).Warn("translate.fallback")
		return Result{Text: text, Fallback: true, Err: err}
	}
	return Result{Text: translated}
}

// Noop returns its input unchanged.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}
