package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxImageBytes caps how much image data is pulled into memory.
const MaxImageBytes = 7 * 1024 * 1024

// supported MIME types for inline image parts; anything else is coerced
// to jpeg since providers reject exotic content types.
var supportedMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Fetcher downloads remote images and normalizes them for inline use.
type Fetcher struct {
	client *http.Client
}

// NewFetcher constructs a fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the image at url and returns it as a normalized inline
// input. Transient failures are retried with capped backoff.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) (ImageInput, error) {
	if strings.TrimSpace(imageURL) == "" {
		return ImageInput{}, fmt.Errorf("vision: empty image URL")
	}

	var input ImageInput
	_, err := withRetry(ctx, func() (string, error) {
		data, mime, err := f.fetchOnce(ctx, imageURL)
		if err != nil {
			return "", err
		}
		input = ImageInput{
			Base64Data: base64.StdEncoding.EncodeToString(data),
			MIMEType:   normalizeMIME(data, mime),
			URL:        imageURL,
		}
		return "", nil
	})
	if err != nil {
		return ImageInput{}, err
	}
	return input, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("vision: fetch %s: %w", imageURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("vision: fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("vision: image %w", &statusError{code: resp.StatusCode})
	}

	limited := io.LimitReader(resp.Body, MaxImageBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, "", fmt.Errorf("vision: read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, "", fmt.Errorf("vision: image exceeds %d bytes", MaxImageBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func normalizeMIME(data []byte, provided string) string {
	mime := strings.TrimSpace(provided)
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	if !supportedMIME[mime] {
		return "image/jpeg"
	}
	return mime
}
