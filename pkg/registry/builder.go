package registry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"boothq/springscrape/pkg/config"
	"boothq/springscrape/pkg/rancher"
	"boothq/springscrape/pkg/scraper"
)

// Builder produces one fully-populated registry per call. It holds only the
// immutable configuration and the instance reader; everything else — the
// Rancher client, the registry, the metric objects — is created fresh for
// every build so each scrape reflects live orchestrator state.
type Builder struct {
	cfg    *config.Config
	reader *scraper.Reader
}

// NewBuilder creates a builder for the given configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:    cfg,
		reader: scraper.NewReader(&cfg.Scrape),
	}
}

// Build discovers the visible instances, fetches each instance's snapshot
// sequentially and registers all values on a fresh registry. Rancher API
// failures are fatal; a per-instance fetch failure drops that instance's
// metrics and continues.
func (b *Builder) Build(ctx context.Context) (*prometheus.Registry, error) {
	scrapeID := uuid.NewString()
	start := time.Now()

	client, err := rancher.New(ctx, &b.cfg.Rancher)
	if err != nil {
		return nil, err
	}

	apps, err := client.ListApps(ctx)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	registrar := NewRegistrar(reg)

	scraped := 0
	for _, app := range apps {
		snapshot, err := b.reader.Fetch(ctx, app)
		if err != nil {
			slog.Warn("instance metrics unavailable",
				"scrape_id", scrapeID,
				"name", app.Name,
				"ip", app.IP,
				"error", err,
			)
			continue
		}
		registrar.Register(app, snapshot)
		scraped++
	}

	slog.Info("registry built",
		"scrape_id", scrapeID,
		"apps", len(apps),
		"scraped", scraped,
		"duration", time.Since(start),
	)
	return reg, nil
}
