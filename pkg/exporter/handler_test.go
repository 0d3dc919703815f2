package exporter_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"boothq/springscrape/internal/ranchertest"
	"boothq/springscrape/pkg/config"
	"boothq/springscrape/pkg/exporter"
	"boothq/springscrape/pkg/registry"
)

func testBuilder(t *testing.T, metrics map[string]float64) *registry.Builder {
	t.Helper()

	port := ranchertest.Instance(t, metrics)
	srv := ranchertest.NewServer(t, ranchertest.Fixture{
		Hosts:    []ranchertest.Host{{ID: "h1", Hostname: "node-a"}},
		SelfHost: "node-a",
		Pages: [][]ranchertest.Container{{{
			ImageUUID:        "docker:app:1",
			Name:             "svc",
			PrimaryIPAddress: "127.0.0.1",
			State:            "running",
			HostID:           "h1",
		}}},
	})

	cfg := config.Default()
	cfg.Rancher = srv.RancherConfig()
	cfg.Scrape.Port = port
	cfg.Scrape.Timeout = 2 * time.Second
	return registry.NewBuilder(cfg)
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp, string(body)
}

func TestHandler(t *testing.T) {
	builder := testBuilder(t, map[string]float64{
		"counter.requests.total": 5,
		"gauge.queue.size":       3,
	})
	srv := httptest.NewServer(exporter.Handler(builder))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(body, `requests_total{ip="127.0.0.1",name="svc",stackName=""} 5`) {
		t.Errorf("missing counter series in output:\n%s", body)
	}
	if !strings.Contains(body, `queue_size{ip="127.0.0.1",name="svc",stackName=""} 3`) {
		t.Errorf("missing gauge series in output:\n%s", body)
	}
}

func TestHandler_PathIgnored(t *testing.T) {
	builder := testBuilder(t, map[string]float64{"gauge.queue.size": 3})
	srv := httptest.NewServer(exporter.Handler(builder))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/some/other/path")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "queue_size") {
		t.Errorf("expected metrics on any path, got:\n%s", body)
	}
}

func TestHandler_NameFilter(t *testing.T) {
	builder := testBuilder(t, map[string]float64{
		"counter.requests.total": 5,
		"gauge.queue.size":       3,
		"latency":                0.2,
	})
	srv := httptest.NewServer(exporter.Handler(builder))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/?name[]=queue_size")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "queue_size") {
		t.Errorf("expected queue_size in output:\n%s", body)
	}
	if strings.Contains(body, "requests_total") || strings.Contains(body, "latency") {
		t.Errorf("expected only queue_size in output:\n%s", body)
	}
}

func TestHandler_NameFilterMultiple(t *testing.T) {
	builder := testBuilder(t, map[string]float64{
		"counter.requests.total": 5,
		"gauge.queue.size":       3,
		"latency":                0.2,
	})
	srv := httptest.NewServer(exporter.Handler(builder))
	defer srv.Close()

	_, body := get(t, srv.URL+"/?name[]=queue_size&name[]=latency")

	if !strings.Contains(body, "queue_size") || !strings.Contains(body, "latency_count") {
		t.Errorf("expected both filtered families in output:\n%s", body)
	}
	if strings.Contains(body, "requests_total") {
		t.Errorf("expected requests_total to be filtered out:\n%s", body)
	}
}

func TestHandler_BuildFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Rancher = config.RancherConfig{
		// Nothing listens here; the build must fail and the handler
		// must answer 500 with a generic message.
		URL:            "http://127.0.0.1:1/v1/",
		MetadataURL:    "http://127.0.0.1:1/hostName",
		RequestTimeout: time.Second,
	}
	builder := registry.NewBuilder(cfg)

	srv := httptest.NewServer(exporter.Handler(builder))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "error generating metric output") {
		t.Errorf("unexpected error body %q", body)
	}
}

func TestHandler_EmptyRegistry(t *testing.T) {
	port := ranchertest.Instance(t, nil)
	srv := ranchertest.NewServer(t, ranchertest.Fixture{
		Hosts:    []ranchertest.Host{{ID: "h1", Hostname: "node-a"}},
		SelfHost: "node-a",
	})

	cfg := config.Default()
	cfg.Rancher = srv.RancherConfig()
	cfg.Scrape.Port = port

	web := httptest.NewServer(exporter.Handler(registry.NewBuilder(cfg)))
	defer web.Close()

	resp, body := get(t, web.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for empty registry, got %d", resp.StatusCode)
	}
	if strings.TrimSpace(body) != "" {
		t.Errorf("expected empty exposition output, got:\n%s", body)
	}
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "queue_size", Help: "queue_size"})
	gauge.Set(3)
	reg.MustRegister(gauge)

	var buf bytes.Buffer
	if err := exporter.WriteText(&buf, reg); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "# TYPE queue_size gauge") || !strings.Contains(out, "queue_size 3") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
