package config

import "time"

// Default values for configuration fields.
const (
	// Rancher defaults
	DefaultMetadataURL    = "http://rancher-metadata/2015-12-19/self/host/hostName"
	DefaultRequestTimeout = 30 * time.Second

	// Scrape defaults
	DefaultScrapePort    = 8080
	DefaultScrapeTimeout = 60 * time.Second

	// Server defaults
	DefaultListenAddress   = ":8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"
)

// Default returns a configuration populated with default values. The Rancher
// URL has no default and must be supplied via file or flag.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any configuration fields that
// were not explicitly set.
func ApplyDefaults(cfg *Config) {
	if cfg.Rancher.MetadataURL == "" {
		cfg.Rancher.MetadataURL = DefaultMetadataURL
	}
	if cfg.Rancher.RequestTimeout == 0 {
		cfg.Rancher.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.Scrape.Port == 0 {
		cfg.Scrape.Port = DefaultScrapePort
	}
	if cfg.Scrape.Timeout == 0 {
		cfg.Scrape.Timeout = DefaultScrapeTimeout
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
}
