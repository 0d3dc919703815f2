// Package exporter serves the collected metrics in Prometheus exposition
// format.
//
// Every GET triggers a full, independent registry build: the handler holds no
// registry of its own and requests never share state, so concurrent scrapes
// are isolated by construction. The optional name[] query parameter restricts
// which metric families are emitted.
package exporter

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"boothq/springscrape/pkg/registry"
)

// Handler returns the exposition HTTP handler. The request path is ignored;
// only the query string matters. Build failures answer 500 with a generic
// message and full detail in the server log. Requests are not access-logged.
func Handler(builder *registry.Builder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reg, err := builder.Build(r.Context())
		if err != nil {
			slog.Error("registry build failed", "error", err)
			http.Error(w, "error generating metric output", http.StatusInternalServerError)
			return
		}

		var gatherer prometheus.Gatherer = reg
		if names := r.URL.Query()["name[]"]; len(names) > 0 {
			gatherer = restrict(reg, names)
		}

		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			ErrorHandling: promhttp.HTTPErrorOnError,
		}).ServeHTTP(w, r)
	})
}

// restrict wraps a gatherer so that only metric families with one of the
// given names are emitted.
func restrict(g prometheus.Gatherer, names []string) prometheus.Gatherer {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}

	return prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
		families, err := g.Gather()
		if err != nil {
			return nil, err
		}

		kept := families[:0]
		for _, family := range families {
			if _, ok := allowed[family.GetName()]; ok {
				kept = append(kept, family)
			}
		}
		return kept, nil
	})
}
