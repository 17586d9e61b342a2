// Package analytics wraps the PostHog client so callers can enqueue events
// without caring whether analytics is configured.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

const DefaultEndpoint = "https://eu.i.posthog.com"

// PosthogClientWrapper is a no-op when no API key was configured.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// InitializePosthogClient returns a disabled wrapper when apiKey is empty.
func InitializePosthogClient(apiKey, endpoint string, logger *slog.Logger) (*PosthogClientWrapper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		logger.Info("PostHog API key is empty, analytics disabled")
		return &PosthogClientWrapper{logger: logger}, nil
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	logger.Info("PostHog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}, nil
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

// Enqueue queues one capture event; delivery happens in the client's background batch.
func (w *PosthogClientWrapper) Enqueue(distinctID, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
	if err != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes pending events.
func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.posthogClient.Close(); err != nil {
		w.logger.Warn("Failed to close analytics client", slog.String("error", err.Error()))
	}
}
