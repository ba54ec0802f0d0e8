package translate

import (
	"context"
	"fmt"
	"strings"

	"chat-relay/llm"
)

var languageNames = map[string]string{
	"en": "English",
	"pt": "Portuguese",
	"es": "Spanish",
	"de": "German",
}

// LLMTranslator asks the generation provider for a translation.
type LLMTranslator struct {
	generator llm.Generator
}

func NewLLMTranslator(generator llm.Generator) *LLMTranslator {
	return &LLMTranslator{generator: generator}
}

func (t *LLMTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	language := targetLang
	if name, ok := languageNames[targetLang]; ok {
		language = name
	}

	prompt := llm.Prompt{{
		Text: fmt.Sprintf("Translate the following text to %s. Reply with the translation only, without quotes or explanations.\n\n%s", language, text),
	}}
	out, err := t.generator.Generate(ctx, prompt, llm.TranslationConfig)
	if err != nil {
		return "", fmt.Errorf("%s translation failed: %w", t.generator.Name(), err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%s returned an empty translation", t.generator.Name())
	}
	return out, nil
}
