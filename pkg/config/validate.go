package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "rancher.url").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateRancher(&cfg.Rancher)...)
	errs = append(errs, validateScrape(&cfg.Scrape)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateRancher(cfg *RancherConfig) []FieldError {
	var errs []FieldError

	if cfg.URL == "" {
		errs = append(errs, FieldError{Field: "rancher.url", Message: "is required"})
	} else if u, err := url.Parse(cfg.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{Field: "rancher.url", Message: fmt.Sprintf("invalid URL %q", cfg.URL)})
	}

	if cfg.MetadataURL == "" {
		errs = append(errs, FieldError{Field: "rancher.metadata_url", Message: "is required"})
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, FieldError{Field: "rancher.request_timeout", Message: "must be positive"})
	}

	return errs
}

func validateScrape(cfg *ScrapeConfig) []FieldError {
	var errs []FieldError

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, FieldError{Field: "scrape.port", Message: fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Port)})
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{Field: "scrape.timeout", Message: "must be positive"})
	}

	return errs
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "is required"})
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{Field: "logging.level", Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Level)})
	}

	switch cfg.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{Field: "logging.format", Message: fmt.Sprintf("must be json or text, got %q", cfg.Format)})
	}

	return errs
}
