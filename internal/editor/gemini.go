package editor

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"stitchSightAi/internal/media"
)

const defaultEditModel = "gemini-2.5-flash-image"

// GeminiEditor applies edits via Gemini image outputs.
type GeminiEditor struct {
	apiKey   string
	model    string
	timeout  time.Duration
	uploader media.Uploader
}

// NewGeminiEditor constructs an editor able to request inline image responses.
func NewGeminiEditor(apiKey, model string, timeout time.Duration, uploader media.Uploader) *GeminiEditor {
	if strings.TrimSpace(model) == "" {
		model = defaultEditModel
	}
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiEditor{
		apiKey:   apiKey,
		model:    model,
		timeout:  timeout,
		uploader: uploader,
	}
}

// Edit asks Gemini to modify the base image per the prompt and uploads
// the resulting image. When the model answers with text only, the request
// is retried once with an image-only nudge.
func (g *GeminiEditor) Edit(ctx context.Context, req EditRequest) (EditResult, error) {
	if g == nil || strings.TrimSpace(g.apiKey) == "" || g.uploader == nil {
		return EditResult{}, fmt.Errorf("editor: gemini editor unavailable")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return EditResult{}, fmt.Errorf("editor: prompt is required")
	}

	encoded, err := prepareBaseImage(ctx, req)
	if err != nil {
		return EditResult{}, err
	}
	imageBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return EditResult{}, fmt.Errorf("editor: decode base image: %w", err)
	}

	childCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(childCtx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return EditResult{}, fmt.Errorf("editor: create genai client: %w", err)
	}

	data, mime, err := g.generate(childCtx, client, req.Prompt, imageBytes)
	if err != nil {
		return EditResult{}, err
	}
	if len(data) == 0 {
		nudge := req.Prompt + "\n\nReturn only the edited image as inline data, no text."
		data, mime, err = g.generate(childCtx, client, nudge, imageBytes)
		if err != nil {
			return EditResult{}, err
		}
	}
	if len(data) == 0 {
		return EditResult{}, fmt.Errorf("editor: model returned no image")
	}

	ext := ".png"
	if strings.Contains(mime, "jpeg") {
		ext = ".jpg"
	}
	result, err := g.uploader.Upload(childCtx, media.UploadInput{
		Filename:    "gemini-edit" + ext,
		ContentType: mime,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	if err != nil {
		return EditResult{}, fmt.Errorf("editor: upload edit: %w", err)
	}
	return EditResult{URL: result.URL, Key: result.Key}, nil
}

func (g *GeminiEditor) generate(ctx context.Context, client *genai.Client, prompt string, imageBytes []byte) ([]byte, string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(imageBytes, "image/png"),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, "", fmt.Errorf("editor: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, "", fmt.Errorf("editor: no candidates returned")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return part.InlineData.Data, mime, nil
		}
	}
	return nil, "", nil
}
