package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// GoogleTranslator calls the public Google Translate "gtx" endpoint.
type GoogleTranslator struct {
	baseURL    string
	httpClient *http.Client
}

func NewGoogleTranslator(baseURL string, httpClient *http.Client) *GoogleTranslator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GoogleTranslator{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")

	// The text goes in the body so long messages are not limited by URL size.
	form := url.Values{}
	form.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"?"+params.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read translate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("translate http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseGTXResponse(body)
}

// parseGTXResponse extracts the translation from the nested array response:
// [[["translated segment","source segment",...],...],...,"detected-lang",...]
func parseGTXResponse(body []byte) (string, error) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return "", fmt.Errorf("failed to parse translate response: %w", err)
	}
	if len(root) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected translate response shape: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(seg[0], &s); err != nil {
			continue
		}
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("translate response contained no text")
	}
	return b.String(), nil
}
