// Package metrics exposes Prometheus counters for quotes, catalog lookups and
// the descriptor cache on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheExpired = "expired"
	CacheError   = "error"
)

// Registry holds the service collectors. A nil *Registry is valid and
// records nothing.
type Registry struct {
	reg             *prometheus.Registry
	Quotes          *prometheus.CounterVec
	CatalogRequests *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	CatalogLatency  *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gamelxrd_quotes_total",
		Help: "Quotes computed, by media kind.",
	}, []string{"kind"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gamelxrd_catalog_requests_total",
		Help: "Upstream catalog requests, by source and outcome.",
	}, []string{"source", "outcome"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gamelxrd_cache_lookups_total",
		Help: "Descriptor cache lookups, by result.",
	}, []string{"result"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamelxrd_catalog_request_seconds",
		Help:    "Upstream catalog request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	r.MustRegister(quotes, requests, lookups, latency, collectors.NewGoCollector())
	return &Registry{
		reg:             r,
		Quotes:          quotes,
		CatalogRequests: requests,
		CacheLookups:    lookups,
		CatalogLatency:  latency,
	}
}

// ObserveQuote counts one quote for kind.
func (r *Registry) ObserveQuote(kind string) {
	if r == nil {
		return
	}
	r.Quotes.WithLabelValues(kind).Inc()
}

// ObserveCatalog records one upstream request.
func (r *Registry) ObserveCatalog(source, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.CatalogRequests.WithLabelValues(source, outcome).Inc()
	r.CatalogLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveCache records one cache lookup result.
func (r *Registry) ObserveCache(result string) {
	if r == nil {
		return
	}
	r.CacheLookups.WithLabelValues(result).Inc()
}

func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
