package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAIDescriber implements Describer via the chat-completions API.
type OpenAIDescriber struct {
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAIDescriber constructs a describer using the provided API key.
func NewOpenAIDescriber(apiKey, model string, timeout time.Duration) *OpenAIDescriber {
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIDescriber{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Describe sends the prompt plus image to OpenAI and returns the text.
func (c *OpenAIDescriber) Describe(ctx context.Context, img ImageInput, prompt string) (string, error) {
	if !img.Inline() && strings.TrimSpace(img.URL) == "" {
		return "", fmt.Errorf("vision: image data or URL required")
	}
	return withRetry(ctx, func() (string, error) {
		return c.describeOnce(ctx, img, prompt)
	})
}

func (c *OpenAIDescriber) describeOnce(ctx context.Context, img ImageInput, prompt string) (string, error) {
	imageURL := img.URL
	if img.Inline() {
		imageURL = fmt.Sprintf("data:%s;base64,%s", img.MIMEType, img.Base64Data)
	}

	payload := map[string]any{
		"model":       c.model,
		"temperature": 0.2,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("vision: marshal openai payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vision: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
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
		return "", fmt.Errorf("vision: openai %w", &statusError{code: resp.StatusCode, message: failure.Error.Message})
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("vision: decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("vision: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}
