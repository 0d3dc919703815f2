package config

import (
	"strings"
	"time"
)

// Config is the root configuration structure for the exporter. It contains
// the Rancher API client settings, the per-instance scrape settings, the
// exposition HTTP server settings, and logging.
type Config struct {
	// Rancher contains the Rancher API client configuration.
	Rancher RancherConfig `yaml:"rancher"`

	// Scrape contains the per-instance metrics fetch configuration.
	Scrape ScrapeConfig `yaml:"scrape"`

	// Server contains the exposition HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// RancherConfig contains configuration for the Rancher REST API client.
type RancherConfig struct {
	// URL is the Rancher REST API base URL. Appending "hosts" or
	// "containers" to it must yield valid endpoints, so it normally ends
	// with a slash (e.g. "http://rancher:8080/v1/").
	URL string `yaml:"url"`

	// ImageFilter is an optional comma-separated list of substrings. When
	// set, only containers whose image identifier contains at least one of
	// the substrings are exported.
	ImageFilter string `yaml:"image_filter"`

	// MetadataURL is the metadata service endpoint that returns the local
	// host name as plain text.
	// Default: "http://rancher-metadata/2015-12-19/self/host/hostName"
	MetadataURL string `yaml:"metadata_url"`

	// RequestTimeout bounds each host-metadata, container-listing and
	// self-hostname request.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// FilterPatterns returns the configured image filter substrings, or nil when
// no filter is configured. Empty segments are dropped.
func (c *RancherConfig) FilterPatterns() []string {
	if c.ImageFilter == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(c.ImageFilter, ",") {
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// ScrapeConfig contains configuration for fetching metrics from discovered
// application instances.
type ScrapeConfig struct {
	// Port is the port every instance exposes its /metrics endpoint on.
	// Default: 8080
	Port int `yaml:"port"`

	// Timeout bounds each per-instance metrics fetch. An instance that
	// does not answer within the timeout contributes no metrics.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig contains configuration for the exposition HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: ":8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must cover a full registry build.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	// Default: "json"
	Format string `yaml:"format"`
}
