package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// WebhookSink POSTs encoded events to an external endpoint
type WebhookSink struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookSink creates a sink posting to url with the X-Internal-API-Key header
func NewWebhookSink(url, apiKey string, timeout time.Duration, logger *zap.Logger) *WebhookSink {
	return &WebhookSink{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *WebhookSink) Publish(ctx context.Context, event Event) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Internal-API-Key", s.apiKey)
	}

	startTime := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	s.logger.Debug("Webhook delivered",
		zap.String("event", event.Name()),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}
