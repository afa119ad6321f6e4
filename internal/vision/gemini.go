package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const defaultGeminiModel = "gemini-1.5-flash-001"

// GeminiDescriber implements Describer against the Google Generative
// Language API.
type GeminiDescriber struct {
	apiKey      string
	model       string
	client      *http.Client
	tokenSource oauth2.TokenSource
}

// NewGeminiDescriber constructs a Gemini-powered image describer. A token
// source takes precedence over the API key when both are configured.
func NewGeminiDescriber(apiKey, model string, timeout time.Duration, tokenSource oauth2.TokenSource) *GeminiDescriber {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiDescriber{
		apiKey:      apiKey,
		model:       normalizeGeminiModel(model),
		client:      &http.Client{Timeout: timeout},
		tokenSource: tokenSource,
	}
}

// Describe sends the image and prompt to Gemini and returns the raw text.
func (g *GeminiDescriber) Describe(ctx context.Context, img ImageInput, prompt string) (string, error) {
	if !img.Inline() && strings.TrimSpace(img.URL) == "" {
		return "", fmt.Errorf("vision: image data or URL required")
	}
	return withRetry(ctx, func() (string, error) {
		return g.describeOnce(ctx, img, prompt)
	})
}

func (g *GeminiDescriber) describeOnce(ctx context.Context, img ImageInput, prompt string) (string, error) {
	parts := []map[string]any{{"text": prompt}}
	if img.Inline() {
		parts = append(parts, map[string]any{
			"inline_data": map[string]string{
				"mime_type": img.MIMEType,
				"data":      img.Base64Data,
			},
		})
	} else {
		parts = append(parts, map[string]any{
			"file_data": map[string]string{"file_uri": img.URL},
		})
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature": 0.2,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("vision: marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		url.PathEscape(g.model),
	)
	if g.tokenSource == nil {
		if strings.TrimSpace(g.apiKey) == "" {
			return "", fmt.Errorf("vision: missing API key or service account credentials")
		}
		endpoint = fmt.Sprintf("%s?key=%s", endpoint, url.QueryEscape(g.apiKey))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vision: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if g.tokenSource != nil {
		token, err := g.tokenSource.Token()
		if err != nil {
			return "", fmt.Errorf("vision: fetch oauth token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision: perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var failure struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return "", fmt.Errorf("vision: gemini %w", &statusError{code: resp.StatusCode, message: failure.Error.Message})
	}

	var completion struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("vision: decode response: %w", err)
	}
	if len(completion.Candidates) == 0 || len(completion.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("vision: empty response")
	}

	var texts []string
	for _, part := range completion.Candidates[0].Content.Parts {
		if trimmed := strings.TrimSpace(part.Text); trimmed != "" {
			texts = append(texts, trimmed)
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("vision: candidate missing text")
	}
	return strings.Join(texts, "\n\n"), nil
}

func normalizeGeminiModel(model string) string {
	clean := strings.TrimSpace(model)
	clean = strings.TrimPrefix(clean, "models/")
	if clean == "" {
		return defaultGeminiModel
	}
	return clean
}
