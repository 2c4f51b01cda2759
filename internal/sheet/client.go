// Package sheet fetches and decodes the published registration sheet.
//
// A sheet published to the web serves its current contents as CSV from a
// stable export URL. [Client] pulls that URL over HTTP and streams the
// response through [DecodeSnapshot], producing the [roster.Snapshot] the
// sync service consumes. Fetching and decoding either succeed completely
// or fail with a single wrapped error; there are no partial snapshots.
package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rosterd/rosterd/internal/roster"
)

// DefaultFetchTimeout bounds one export request end to end.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxResponseBytes caps the export response size (10MB).
const DefaultMaxResponseBytes int64 = 10 * 1024 * 1024

// Config holds the published sheet location and fetch limits.
type Config struct {
	// URL is the publish-to-web CSV export link.
	URL string

	// Timeout bounds one fetch. Zero means DefaultFetchTimeout.
	Timeout time.Duration

	// MaxBytes caps the response size. Zero means
	// DefaultMaxResponseBytes; negative disables the cap.
	MaxBytes int64
}

// Client fetches roster snapshots from a published sheet. It implements
// the sync service's fetcher contract.
type Client struct {
	url      string
	maxBytes int64
	http     *http.Client
	log      *slog.Logger
}

// NewClient creates a Client for the configured export URL.
func NewClient(cfg Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxResponseBytes
	}
	if maxBytes < 0 {
		maxBytes = 0
	}

	if log == nil {
		log = slog.Default()
	}

	return &Client{
		url:      cfg.URL,
		maxBytes: maxBytes,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Fetch pulls one complete snapshot of the published sheet.
//
// Network and status failures come back wrapped as fetch errors, decode
// failures as parse errors; in both cases no snapshot is returned.
func (c *Client) Fetch(ctx context.Context) (*roster.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch roster sheet: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch roster sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch roster sheet: unexpected status %s", resp.Status)
	}

	body := NewReader(resp.Body, c.maxBytes)
	snap, err := DecodeSnapshot(body)
	if err != nil {
		return nil, err
	}

	c.log.Debug("sheet fetched",
		"rows", len(snap.Rows),
		"columns", len(snap.Columns),
		"bytes", body.BytesRead(),
	)

	return snap, nil
}
