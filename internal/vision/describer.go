package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ImageInput carries an image either as inline data (preferred, so the
// model does not have to refetch anything) or as a remote URL fallback.
type ImageInput struct {
	Base64Data string
	MIMEType   string
	URL        string
}

// Inline reports whether the input carries usable inline data.
func (i ImageInput) Inline() bool {
	return strings.TrimSpace(i.Base64Data) != ""
}

// Describer produces an unstructured natural-language description of an
// image. The response text is consumed by the analysis parser.
type Describer interface {
	Describe(ctx context.Context, img ImageInput, prompt string) (string, error)
}

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 4 * time.Second
)

// statusError marks a provider HTTP failure so the retry loop can tell
// transient trouble from dead credentials.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.message)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case 401, 403:
			return false
		case 429:
			// Rate limiting is worth another try; quota exhaustion is not.
			return !strings.Contains(strings.ToLower(se.message), "quota")
		}
		return se.code >= 500
	}
	// Network errors and timeouts are transient by default.
	return true
}

// withRetry runs fn with bounded exponential backoff. Non-retryable
// failures abort immediately.
func withRetry(ctx context.Context, fn func() (string, error)) (string, error) {
	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := fn()
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable(err) || attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
	return "", lastErr
}
