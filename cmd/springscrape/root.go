package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"boothq/springscrape/pkg/config"
	"boothq/springscrape/pkg/exporter"
	"boothq/springscrape/pkg/registry"
)

var rootFlags struct {
	cfgFile     string
	rancherURL  string
	imageFilter string
	listen      string
	logLevel    string
	test        bool
}

var rootCmd = &cobra.Command{
	Use:   "springscrape",
	Short: "Prometheus exporter for Spring Boot apps discovered via Rancher",
	Long: `Springscrape is a Prometheus exporter for Spring Boot applications running
under Rancher. On every scrape it discovers the containers visible to the
local host through the Rancher REST API, polls each instance's embedded
/metrics JSON endpoint, classifies the reported keys into counters, gauges
and summaries by naming convention, and serves the result in Prometheus
exposition format.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&rootFlags.cfgFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVar(&rootFlags.rancherURL, "rancher", "", "Rancher REST API base URL")
	rootCmd.Flags().StringVar(&rootFlags.imageFilter, "image-filter", "", "comma-separated image substrings to export")
	rootCmd.Flags().StringVar(&rootFlags.listen, "listen", "", "override listen address")
	rootCmd.Flags().StringVar(&rootFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&rootFlags.test, "test", false, "run one build, print exposition text to stdout and exit")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	setupLogging(&cfg.Logging)

	builder := registry.NewBuilder(cfg)

	if rootFlags.test {
		reg, err := builder.Build(cmd.Context())
		if err != nil {
			return err
		}
		return exporter.WriteText(os.Stdout, reg)
	}

	server := exporter.NewServer(&cfg.Server, builder)
	return server.Start(cmd.Context())
}

// loadConfig assembles the effective configuration: defaults, then the
// optional config file, then flag overrides, then validation.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if rootFlags.cfgFile != "" {
		loaded, err := config.LoadConfig(rootFlags.cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	applyFlagOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config) {
	if rootFlags.rancherURL != "" {
		cfg.Rancher.URL = rootFlags.rancherURL
	}
	if rootFlags.imageFilter != "" {
		cfg.Rancher.ImageFilter = rootFlags.imageFilter
	}
	if rootFlags.listen != "" {
		cfg.Server.ListenAddress = rootFlags.listen
	}
	if rootFlags.logLevel != "" {
		cfg.Logging.Level = rootFlags.logLevel
	}
}

func setupLogging(cfg *config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
