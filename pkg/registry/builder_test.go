package registry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"boothq/springscrape/internal/ranchertest"
	"boothq/springscrape/pkg/config"
	"boothq/springscrape/pkg/registry"
)

func testConfig(srv *ranchertest.Server, port int) *config.Config {
	cfg := config.Default()
	cfg.Rancher = srv.RancherConfig()
	cfg.Scrape.Port = port
	cfg.Scrape.Timeout = 2 * time.Second
	return cfg
}

func TestBuild_EndToEnd(t *testing.T) {
	port := ranchertest.Instance(t, map[string]float64{
		"counter.requests.total": 5,
		"gauge.queue.size":       3,
		"latency":                0.2,
	})

	srv := ranchertest.NewServer(t, ranchertest.Fixture{
		Hosts:    []ranchertest.Host{{ID: "h1", Hostname: "node-a"}},
		SelfHost: "node-a",
		Pages: [][]ranchertest.Container{{{
			ImageUUID:        "docker:app:1",
			Name:             "svc",
			PrimaryIPAddress: "127.0.0.1",
			Labels:           map[string]string{},
			State:            "running",
			HostID:           "h1",
		}}},
	})

	builder := registry.NewBuilder(testConfig(srv, port))
	reg, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := `
# HELP requests_total requests_total
# TYPE requests_total counter
requests_total{ip="127.0.0.1",name="svc",stackName=""} 5
# HELP queue_size queue_size
# TYPE queue_size gauge
queue_size{ip="127.0.0.1",name="svc",stackName=""} 3
# HELP latency latency
# TYPE latency summary
latency_sum{ip="127.0.0.1",name="svc",stackName=""} 0.2
latency_count{ip="127.0.0.1",name="svc",stackName=""} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestBuild_NoVisibleInstances(t *testing.T) {
	srv := ranchertest.NewServer(t, ranchertest.Fixture{
		Hosts:    []ranchertest.Host{{ID: "h1", Hostname: "node-a"}},
		SelfHost: "node-a",
	})

	builder := registry.NewBuilder(testConfig(srv, 8080))
	reg, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) != 0 {
		t.Errorf("expected empty registry, got %d metric families", len(families))
	}
}

func TestBuild_UnreachableInstanceIsSkipped(t *testing.T) {
	port := ranchertest.Instance(t, map[string]float64{"gauge.queue.size": 3})

	// The second container points at a loopback address nothing listens
	// on; its fetch fails fast and must not abort the build.
	srv := ranchertest.NewServer(t, ranchertest.Fixture{
		Hosts:    []ranchertest.Host{{ID: "h1", Hostname: "node-a"}},
		SelfHost: "node-a",
		Pages: [][]ranchertest.Container{{
			{ImageUUID: "docker:app:1", Name: "alive", PrimaryIPAddress: "127.0.0.1", State: "running", HostID: "h1"},
			{ImageUUID: "docker:app:1", Name: "dead", PrimaryIPAddress: "127.0.0.2", State: "running", HostID: "h1"},
		}},
	})

	builder := registry.NewBuilder(testConfig(srv, port))
	reg, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := `
# HELP queue_size queue_size
# TYPE queue_size gauge
queue_size{ip="127.0.0.1",name="alive",stackName=""} 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestBuild_RancherFailureIsFatal(t *testing.T) {
	srv := ranchertest.NewServer(t, ranchertest.Fixture{})
	cfg := testConfig(srv, 8080)
	srv.Close()

	builder := registry.NewBuilder(cfg)
	if _, err := builder.Build(context.Background()); err == nil {
		t.Fatal("expected error when the Rancher API is unreachable")
	}
}

func TestBuild_FreshRegistryPerBuild(t *testing.T) {
	port := ranchertest.Instance(t, map[string]float64{"counter.requests.total": 5})

	srv := ranchertest.NewServer(t, ranchertest.Fixture{
		Hosts:    []ranchertest.Host{{ID: "h1", Hostname: "node-a"}},
		SelfHost: "node-a",
		Pages: [][]ranchertest.Container{{{
			ImageUUID: "docker:app:1", Name: "svc", PrimaryIPAddress: "127.0.0.1", State: "running", HostID: "h1",
		}}},
	})

	builder := registry.NewBuilder(testConfig(srv, port))

	// Two builds must not accumulate: each reports the instantaneous value.
	for i := 0; i < 2; i++ {
		reg, err := builder.Build(context.Background())
		if err != nil {
			t.Fatalf("Build %d failed: %v", i, err)
		}

		expected := `
# HELP requests_total requests_total
# TYPE requests_total counter
requests_total{ip="127.0.0.1",name="svc",stackName=""} 5
`
		if err := testutil.GatherAndCompare(reg, strings.NewReader(expected)); err != nil {
			t.Errorf("build %d: %v", i, err)
		}
	}
}
