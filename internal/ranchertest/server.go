// Package ranchertest provides fake Rancher API and application instance
// servers for testing the discovery and scrape pipeline.
package ranchertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"boothq/springscrape/pkg/config"
)

// Host is a Rancher host record served by the fake hosts endpoint.
type Host struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
}

// Container is a Rancher container record served by the fake containers
// endpoint.
type Container struct {
	ImageUUID        string            `json:"imageUuid"`
	Name             string            `json:"name"`
	PrimaryIPAddress string            `json:"primaryIpAddress"`
	Labels           map[string]string `json:"labels"`
	State            string            `json:"state"`
	HostID           string            `json:"hostId"`
}

// Fixture describes the state of a fake Rancher installation. Containers are
// served page by page, linked through pagination.next.
type Fixture struct {
	Hosts    []Host
	SelfHost string
	Pages    [][]Container
}

// Server is a fake Rancher API server backed by httptest. It serves the
// hosts, containers and self-hostname endpoints the client consumes.
type Server struct {
	*httptest.Server
	fixture Fixture
}

const metadataPath = "/2015-12-19/self/host/hostName"

// NewServer starts a fake Rancher API server for the given fixture. The
// server is shut down automatically when the test finishes.
func NewServer(t *testing.T, fixture Fixture) *Server {
	t.Helper()

	s := &Server{fixture: fixture}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handler))
	t.Cleanup(s.Close)
	return s
}

// RancherConfig returns a client configuration pointing at this fake server.
func (s *Server) RancherConfig() config.RancherConfig {
	return config.RancherConfig{
		URL:            s.URL + "/v1/",
		MetadataURL:    s.URL + metadataPath,
		RequestTimeout: 5 * time.Second,
	}
}

func (s *Server) handler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/v1/hosts":
		s.writeJSON(w, map[string]any{"data": s.fixture.Hosts})

	case "/v1/containers":
		page := 0
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}

		var containers []Container
		if page < len(s.fixture.Pages) {
			containers = s.fixture.Pages[page]
		}

		next := ""
		if page+1 < len(s.fixture.Pages) {
			next = fmt.Sprintf("%s/v1/containers?page=%d", s.URL, page+1)
		}

		s.writeJSON(w, map[string]any{
			"data":       containers,
			"pagination": map[string]any{"next": orNull(next)},
		})

	case metadataPath:
		fmt.Fprint(w, s.fixture.SelfHost)

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// orNull maps an empty next URL to JSON null, matching how Rancher
// terminates pagination.
func orNull(next string) any {
	if next == "" {
		return nil
	}
	return next
}

// Instance starts a fake application instance serving the given metrics map
// on /metrics and returns the port it listens on. The instance is reachable
// as 127.0.0.1, so tests pair it with that IP in container fixtures.
func Instance(t *testing.T, metrics map[string]float64) int {
	t.Helper()
	return RawInstance(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metrics" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(metrics)
	})
}

// RawInstance starts a fake application instance with a caller-supplied
// handler, for simulating malformed responses or slow endpoints.
func RawInstance(t *testing.T, handler http.HandlerFunc) int {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("failed to parse instance URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("failed to parse instance port: %v", err)
	}
	return port
}
