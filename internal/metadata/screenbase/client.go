// Package screenbase implements the metadata source for the ScreenBase
// catalog API.
package screenbase

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/rasa-media/rasa-server/internal/metadata"
)

const defaultPageSize = 100

// Client fetches incremental movie pages from a ScreenBase endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	pageSize    int
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a ScreenBase client for the given endpoint.
// Rate limited to 2 requests per second with a small burst, which keeps a
// full-catalog sync well under the provider's published quota.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: defaultPageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 3),
		logger:      logger,
	}
}

// Name implements metadata.Source.
func (c *Client) Name() string { return "screenbase" }

// FetchSince implements metadata.Source. It requests one page of records
// newer than the given revision token. Failures are tagged as network or
// timeout so the sync engine can retry with backoff.
func (c *Client) FetchSince(ctx context.Context, revision string) (*metadata.Page, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", c.pageSize))
	if revision != "" {
		params.Set("since", revision)
	}
	fetchURL := c.baseURL + "/v1/movies?" + params.Encode()

	c.logger.Debug("fetching movie page",
		"revision", revision,
		"url", fetchURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, metadata.NetworkError(fmt.Errorf("fetch failed: status %d", resp.StatusCode))
	}

	var pageResp pageResponse
	if err := json.UnmarshalRead(resp.Body, &pageResp); err != nil {
		return nil, metadata.NetworkError(fmt.Errorf("parse response: %w", err))
	}

	c.logger.Debug("fetched movie page",
		"revision", revision,
		"count", len(pageResp.Records),
		"next_revision", pageResp.NextRevision,
		"done", pageResp.Done,
	)

	return &metadata.Page{
		Records:      pageResp.Records,
		NextRevision: pageResp.NextRevision,
		Done:         pageResp.Done,
	}, nil
}

// classifyTransportError maps an HTTP client error onto the source error
// taxonomy. Deadline expiry is a timeout; everything else is a network
// failure. Both are transient.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return metadata.TimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return metadata.TimeoutError(err)
	}
	return metadata.NetworkError(err)
}
