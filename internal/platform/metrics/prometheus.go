package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/logger"
)

// Manager holds the service's custom Prometheus metrics.
type Manager struct {
	Registry           *prometheus.Registry
	SearchesTotal      prometheus.Counter
	SessionsStarted    prometheus.Counter
	SessionMutations   *prometheus.CounterVec
	CatalogCacheHits   prometheus.Counter
	CatalogCacheMisses prometheus.Counter
	HTTPErrorsTotal    *prometheus.CounterVec
	HTTPLatency        *prometheus.HistogramVec
}

func NewManager(serviceName string) *Manager {
	// Metric names reject hyphens, so "discovery-service" becomes
	// "discovery_service".
	serviceName = strings.ReplaceAll(serviceName, "-", "_")

	registry := prometheus.NewRegistry()

	searchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "searches_total",
		Help:      "Total number of discovery searches executed.",
	})
	sessionsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "sessions_started_total",
		Help:      "Total number of browsing sessions started.",
	})
	sessionMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "session_mutations_total",
		Help:      "Total number of session mutations by operation.",
	}, []string{"operation"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "catalog_cache_hits_total",
		Help:      "Category listing sets served from cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "catalog_cache_misses_total",
		Help:      "Category listing sets fetched from the primary store.",
	})
	httpErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP errors by route and status.",
	}, []string{"route", "status"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		searchesTotal,
		sessionsStarted,
		sessionMutations,
		cacheHits,
		cacheMisses,
		httpErrors,
		httpLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:           registry,
		SearchesTotal:      searchesTotal,
		SessionsStarted:    sessionsStarted,
		SessionMutations:   sessionMutations,
		CatalogCacheHits:   cacheHits,
		CatalogCacheMisses: cacheMisses,
		HTTPErrorsTotal:    httpErrors,
		HTTPLatency:        httpLatency,
	}
}

// StartServer exposes /metrics on its own listener. A blank port disables the
// server.
func StartServer(port string, log logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Infof("Prometheus metrics server starting on :%s/metrics", port)
	server := &http.Server{Addr: ":" + port, Handler: mux}
	return server.ListenAndServe()
}
