package registry

import (
	"github.com/prometheus/client_golang/prometheus"

	"boothq/springscrape/pkg/rancher"
	"boothq/springscrape/pkg/scraper"
)

// seriesLabels identify the instance a series belongs to. Host and image are
// deliberately not part of the label set.
var seriesLabels = []string{"name", "stackName", "ip"}

// Registrar records raw metric snapshots on a single build's registry. The
// underlying metric objects are created lazily, at most once per sanitized
// name, and shared by all instances reporting that name within the build.
type Registrar struct {
	registry  *prometheus.Registry
	counters  map[string]*prometheus.CounterVec
	gauges    map[string]*prometheus.GaugeVec
	summaries map[string]*prometheus.SummaryVec
}

// NewRegistrar creates a registrar bound to the given build-scoped registry.
func NewRegistrar(reg *prometheus.Registry) *Registrar {
	return &Registrar{
		registry:  reg,
		counters:  make(map[string]*prometheus.CounterVec),
		gauges:    make(map[string]*prometheus.GaugeVec),
		summaries: make(map[string]*prometheus.SummaryVec),
	}
}

// Register records every key/value pair of the snapshot against the app's
// label set. Counters add (so a name reported twice within one build sums),
// gauges set with last write winning, summaries record one observation per
// value.
func (r *Registrar) Register(app rancher.App, snapshot scraper.Snapshot) {
	for key, value := range snapshot {
		kind, strip := Classify(key)
		name := Sanitize(key)
		name = name[min(strip, len(name)):]

		switch kind {
		case KindCounter:
			r.counter(name).WithLabelValues(app.Name, app.StackName, app.IP).Add(value)
		case KindGauge:
			r.gauge(name).WithLabelValues(app.Name, app.StackName, app.IP).Set(value)
		default:
			r.summary(name).WithLabelValues(app.Name, app.StackName, app.IP).Observe(value)
		}
	}
}

func (r *Registrar) counter(name string) *prometheus.CounterVec {
	vec, ok := r.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: name, Help: name},
			seriesLabels,
		)
		r.registry.MustRegister(vec)
		r.counters[name] = vec
	}
	return vec
}

func (r *Registrar) gauge(name string) *prometheus.GaugeVec {
	vec, ok := r.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: name, Help: name},
			seriesLabels,
		)
		r.registry.MustRegister(vec)
		r.gauges[name] = vec
	}
	return vec
}

func (r *Registrar) summary(name string) *prometheus.SummaryVec {
	vec, ok := r.summaries[name]
	if !ok {
		vec = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{Name: name, Help: name},
			seriesLabels,
		)
		r.registry.MustRegister(vec)
		r.summaries[name] = vec
	}
	return vec
}
