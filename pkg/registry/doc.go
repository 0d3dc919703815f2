// Package registry builds a complete Prometheus registry from live Rancher
// state.
//
// Each build is fully self-contained: a fresh Rancher client discovers the
// visible instances, each instance's raw metric snapshot is fetched, every
// raw key is classified into counter, gauge or summary by its naming prefix,
// and the resulting series are registered on a fresh prometheus.Registry
// labeled by instance identity. Nothing survives a build; every scrape starts
// from scratch, so values are instantaneous even when exposed with counter
// semantics.
package registry
