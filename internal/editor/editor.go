// Package editor wraps the external image-edit models. The edit mapper's
// expanded prompt goes in; a URL for the edited image comes out. What the
// model actually changed is judged later by re-analysis and the scorer.
package editor

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EditRequest describes one edit against a base image.
type EditRequest struct {
	Prompt        string
	BaseImageURL  string
	BaseImageData string
}

// EditResult points at the stored edited image.
type EditResult struct {
	URL string `json:"url"`
	Key string `json:"key,omitempty"`
}

// Editor applies an edit prompt to an image.
type Editor interface {
	Edit(ctx context.Context, req EditRequest) (EditResult, error)
}

func prepareBaseImage(ctx context.Context, req EditRequest) (string, error) {
	if trimmed := strings.TrimSpace(req.BaseImageData); trimmed != "" {
		return stripDataPrefix(trimmed)
	}
	if strings.TrimSpace(req.BaseImageURL) == "" {
		return "", fmt.Errorf("editor: reference image is required")
	}
	imageBytes, err := fetchImage(ctx, req.BaseImageURL)
	if err != nil {
		return "", fmt.Errorf("editor: fetch base image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(imageBytes), nil
}

func stripDataPrefix(raw string) (string, error) {
	if !strings.HasPrefix(raw, "data:") {
		return raw, nil
	}
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("editor: invalid data URL")
	}
	return parts[1], nil
}

func fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
