package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultTarget is used when a request carries no target language
const DefaultTarget = "ko"

// Libre calls a LibreTranslate-compatible API
type Libre struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewLibre creates a translation client for endpoint
func NewLibre(endpoint string, timeout time.Duration, logger *zap.Logger) *Libre {
	return &Libre{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate returns the translation of text into target.
// Upstream failures are logged and degrade to an empty string.
func (l *Libre) Translate(ctx context.Context, text, target string) string {
	if target == "" {
		target = DefaultTarget
	}

	translated, err := l.call(ctx, text, target)
	if err != nil {
		l.logger.Warn("Translate request failed",
			zap.String("target", target),
			zap.Error(err),
		)
		return ""
	}
	return translated
}

func (l *Libre) call(ctx context.Context, text, target string) (string, error) {
	body, err := json.Marshal(libreRequest{Q: text, Source: "en", Target: target, Format: "text"})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out libreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("upstream error (status %d): %s", resp.StatusCode, out.Error)
	}
	return out.TranslatedText, nil
}
