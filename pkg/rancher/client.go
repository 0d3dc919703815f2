package rancher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"boothq/springscrape/pkg/config"
)

// App describes a running application container discovered via Rancher.
// It exists only for the duration of one registry build.
type App struct {
	// Image is the container image identifier (Rancher imageUuid).
	Image string

	// Name is the container name.
	Name string

	// IP is the container's primary IP address.
	IP string

	// StackName is the Rancher stack the container belongs to, or empty
	// when the container carries no stack label.
	StackName string

	// State is the container state as reported by Rancher (e.g. "running").
	State string

	// Host is the hostname of the Rancher host the container runs on.
	Host string
}

// stackLabel is the Rancher container label carrying the stack name.
const stackLabel = "io.rancher.stack.name"

// Client is a read-only Rancher REST API client scoped to one registry
// build. New eagerly loads the host metadata and the local hostname; ListApps
// walks the paginated containers endpoint.
type Client struct {
	cfg      *config.RancherConfig
	http     *http.Client
	patterns []string

	// hosts maps Rancher host id to hostname, loaded once per client.
	hosts    map[string]string
	selfHost string
}

// New creates a client, loading the host id-to-hostname mapping and
// resolving the local hostname from the metadata service. Any failure here is
// fatal to the build that requested the client.
func New(ctx context.Context, cfg *config.RancherConfig) (*Client, error) {
	c := &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.RequestTimeout},
		patterns: cfg.FilterPatterns(),
	}

	if err := c.loadHosts(ctx); err != nil {
		return nil, fmt.Errorf("failed to load host metadata: %w", err)
	}

	selfHost, err := c.loadSelfHost(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve self hostname: %w", err)
	}
	c.selfHost = selfHost

	return c, nil
}

// SelfHost returns the hostname of the host this exporter runs on, as
// reported by the Rancher metadata service.
func (c *Client) SelfHost() string {
	return c.selfHost
}

type hostsResponse struct {
	Data []struct {
		ID       string `json:"id"`
		Hostname string `json:"hostname"`
	} `json:"data"`
}

func (c *Client) loadHosts(ctx context.Context) error {
	var resp hostsResponse
	if err := c.getJSON(ctx, c.cfg.URL+"hosts", &resp); err != nil {
		return err
	}

	c.hosts = make(map[string]string, len(resp.Data))
	for _, host := range resp.Data {
		c.hosts[host.ID] = host.Hostname
	}
	return nil
}

func (c *Client) loadSelfHost(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.MetadataURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

type containerRecord struct {
	ImageUUID        string            `json:"imageUuid"`
	Name             string            `json:"name"`
	PrimaryIPAddress string            `json:"primaryIpAddress"`
	Labels           map[string]string `json:"labels"`
	State            string            `json:"state"`
	HostID           string            `json:"hostId"`
}

type containersResponse struct {
	Data       []containerRecord `json:"data"`
	Pagination struct {
		Next string `json:"next"`
	} `json:"pagination"`
}

// ListApps lists all containers visible to this exporter, following
// pagination until exhausted. Containers on other hosts, stopped containers
// and containers excluded by the image filter are silently dropped; a
// container whose host id is unknown is an error.
func (c *Client) ListApps(ctx context.Context) ([]App, error) {
	var apps []App

	url := c.cfg.URL + "containers"
	for url != "" {
		var page containersResponse
		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("failed to list containers: %w", err)
		}

		for _, rec := range page.Data {
			hostname, ok := c.hosts[rec.HostID]
			if !ok {
				return nil, fmt.Errorf("container %q references unknown host %q", rec.Name, rec.HostID)
			}

			app := App{
				Image:     rec.ImageUUID,
				Name:      rec.Name,
				IP:        rec.PrimaryIPAddress,
				StackName: rec.Labels[stackLabel],
				State:     rec.State,
				Host:      hostname,
			}
			if c.visible(app) {
				apps = append(apps, app)
			}
		}

		url = page.Pagination.Next
	}

	return apps, nil
}

// visible reports whether the exporter should scrape the given app: it must
// run on the local host, must not be stopped, and, when an image filter is
// configured, its image must contain at least one of the filter substrings.
func (c *Client) visible(app App) bool {
	if app.Host != c.selfHost {
		return false
	}
	if app.State == "stopped" {
		return false
	}
	if len(c.patterns) == 0 {
		return true
	}
	for _, pattern := range c.patterns {
		if strings.Contains(app.Image, pattern) {
			return true
		}
	}
	return false
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: invalid JSON: %w", url, err)
	}
	return nil
}
