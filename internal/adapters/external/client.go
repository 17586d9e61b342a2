// Package external holds the HTTP clients of the two upstream data sources.
package external

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	"github.com/SscSPs/country_currency_api/internal/middleware"
	"github.com/SscSPs/country_currency_api/internal/platform/metrics"
	"github.com/goccy/go-json"
)

const (
	defaultTimeout   = 2 * time.Minute
	defaultUserAgent = "CountriesAPI/1.0"
	maxBodyBytes     = 32 << 20
)

// Options configures the shared HTTP behaviour of the upstream clients.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client // optional; overrides Timeout when set
}

type jsonGetter struct {
	source     string
	url        string
	userAgent  string
	httpClient *http.Client
}

func newJSONGetter(source, url string, opts Options) jsonGetter {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return jsonGetter{source: source, url: url, userAgent: ua, httpClient: client}
}

// getJSON performs one GET and decodes the body into out.
// Transport faults and non-2xx answers become UpstreamUnavailable, undecodable
// bodies become UpstreamMalformed, and request construction errors pass through.
func (g jsonGetter) getJSON(ctx context.Context, out any) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("source", g.source))
	logger.Info("Fetching upstream data", slog.String("url", g.url))
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		logger.Error("Upstream request failed", slog.String("error", err.Error()))
		metrics.ObserveUpstream(g.source, metrics.OutcomeUnavailable, time.Since(start))
		return apperrors.NewUpstreamUnavailable(g.source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("Upstream returned non-success status", slog.Int("status", resp.StatusCode))
		metrics.ObserveUpstream(g.source, metrics.OutcomeUnavailable, time.Since(start))
		return apperrors.NewUpstreamUnavailable(g.source, fmt.Errorf("%s returned status %d", g.source, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logger.Error("Failed to read upstream body", slog.String("error", err.Error()))
		metrics.ObserveUpstream(g.source, metrics.OutcomeUnavailable, time.Since(start))
		return apperrors.NewUpstreamUnavailable(g.source, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		logger.Error("Failed to parse upstream body", slog.String("error", err.Error()))
		metrics.ObserveUpstream(g.source, metrics.OutcomeMalformed, time.Since(start))
		return apperrors.NewUpstreamMalformed(g.source, err)
	}

	metrics.ObserveUpstream(g.source, metrics.OutcomeSuccess, time.Since(start))
	return nil
}
