// Package rancher implements a read-only client for the Rancher REST API.
//
// The client resolves the identity of the local host through the Rancher
// metadata service, loads the id-to-hostname mapping for all hosts, and lists
// containers through the paginated containers endpoint. Listing applies the
// visibility rules for this exporter: only containers scheduled on the local
// host, not in the stopped state, and (when an image filter is configured)
// matching at least one image substring are returned.
//
// A client is cheap and short-lived: the registry builder constructs a fresh
// one per build so every scrape reflects live orchestrator state.
package rancher
