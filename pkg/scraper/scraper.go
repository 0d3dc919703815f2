// Package scraper fetches raw metric snapshots from application instances.
//
// Every discovered instance is expected to expose a flat JSON object mapping
// metric key to numeric value on a fixed-port /metrics endpoint. A fetch
// failure never aborts a registry build; the builder logs it and moves on to
// the next instance.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"boothq/springscrape/pkg/config"
	"boothq/springscrape/pkg/rancher"
)

// Snapshot is the raw metric snapshot of one instance: metric key to numeric
// value, as reported by the instance's /metrics endpoint.
type Snapshot map[string]float64

// Reader fetches metric snapshots from instances. It is safe for use across
// builds: it holds only the scrape configuration and a pooled HTTP client.
type Reader struct {
	cfg  *config.ScrapeConfig
	http *http.Client
}

// NewReader creates a reader with the configured per-instance timeout.
func NewReader(cfg *config.ScrapeConfig) *Reader {
	return &Reader{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// URL returns the metrics endpoint for the given app.
func (r *Reader) URL(app rancher.App) string {
	return fmt.Sprintf("http://%s:%d/metrics", app.IP, r.cfg.Port)
}

// Fetch retrieves the app's raw metric snapshot. Timeouts, connection
// failures, non-200 responses and malformed JSON all return an error; the
// caller treats any error as "no metrics for this instance".
func (r *Reader) Fetch(ctx context.Context, app rancher.App) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(app), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metrics endpoint returned status %d", resp.StatusCode)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("invalid metrics JSON: %w", err)
	}
	return snapshot, nil
}
