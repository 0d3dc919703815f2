package registry

import "strings"

// Kind is the semantic type of an exported metric series.
type Kind int

const (
	// KindCounter is an additive metric, inferred from the "counter" key prefix.
	KindCounter Kind = iota
	// KindGauge is an absolute metric, inferred from the "gauge" key prefix.
	KindGauge
	// KindSummary is the fallback distribution metric for unprefixed keys.
	KindSummary
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	default:
		return "summary"
	}
}

// sanitizer rewrites raw metric keys into valid Prometheus metric names.
var sanitizer = strings.NewReplacer(".", "_", "-", "_")

// Sanitize replaces every "." and "-" in a raw metric key with "_". No other
// characters are altered.
func Sanitize(key string) string {
	return sanitizer.Replace(key)
}

// Classify infers the semantic type of a raw metric key from its naming
// prefix and returns the number of leading characters to strip from the
// sanitized name. The prefix check runs on the raw key; the strip count
// covers the prefix plus its separator ("counter." and "gauge.").
func Classify(rawKey string) (Kind, int) {
	switch {
	case strings.HasPrefix(rawKey, "counter"):
		return KindCounter, len("counter.")
	case strings.HasPrefix(rawKey, "gauge"):
		return KindGauge, len("gauge.")
	default:
		return KindSummary, 0
	}
}
