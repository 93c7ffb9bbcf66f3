// Package prom exports observability hooks as Prometheus metrics.
package prom

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/brewtower/pkg/observability"
)

// Observer implements every observability hook interface.
type Observer struct {
	gatherer prometheus.Gatherer

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	catalogSize   prometheus.Gauge
	cacheOps      *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	clientReqs    *prometheus.CounterVec
	clientLatency *prometheus.HistogramVec
	serverReqs    *prometheus.CounterVec
	serverLatency *prometheus.HistogramVec
}

// New registers brewtower metrics with reg (the default registry when nil).
// Registering twice on the same registry reuses the existing collectors.
func New(namespace string, reg *prometheus.Registry) (*Observer, error) {
	if namespace == "" {
		namespace = "brewtower"
	}
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	o := &Observer{gatherer: gatherer}
	var err error
	if o.stageDuration, err = register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Latency of pipeline stages (calculate, render, catalog).",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})); err != nil {
		return nil, err
	}
	if o.stageErrors, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_errors_total",
		Help:      "Failed pipeline stages.",
	}, []string{"stage"})); err != nil {
		return nil, err
	}
	if o.catalogSize, err = register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_styles",
		Help:      "Number of styles in the loaded catalog.",
	})); err != nil {
		return nil, err
	}
	if o.cacheOps, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_operations_total",
		Help:      "Cache lookups and writes by key type and result.",
	}, []string{"key_type", "result"})); err != nil {
		return nil, err
	}
	if o.cacheBytes, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_written_bytes_total",
		Help:      "Bytes written to the cache.",
	}, []string{"key_type"})); err != nil {
		return nil, err
	}
	if o.clientReqs, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Backend API requests by path and status.",
	}, []string{"method", "path", "status"})); err != nil {
		return nil, err
	}
	if o.clientLatency, err = register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Backend API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})); err != nil {
		return nil, err
	}
	if o.serverReqs, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Served HTTP requests by route and status.",
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}
	if o.serverLatency, err = register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Served HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})); err != nil {
		return nil, err
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// Install registers o for every hook category.
func (o *Observer) Install() {
	observability.SetPipelineHooks(o)
	observability.SetCacheHooks(o)
	observability.SetHTTPHooks(o)
	observability.SetServerHooks(o)
}

// Handler serves the metrics of o's registry.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})
}

func (o *Observer) stage(name string, d time.Duration, err error) {
	o.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		o.stageErrors.WithLabelValues(name).Inc()
	}
}

func (o *Observer) OnCalculateStart(context.Context) {}

func (o *Observer) OnCalculateComplete(_ context.Context, d time.Duration, err error) {
	o.stage("calculate", d, err)
}

func (o *Observer) OnRenderStart(context.Context, []string) {}

func (o *Observer) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	o.stage("render", d, err)
}

func (o *Observer) OnCatalogLoad(_ context.Context, styles int, d time.Duration, err error) {
	o.stage("catalog", d, err)
	if err == nil {
		o.catalogSize.Set(float64(styles))
	}
}

func (o *Observer) OnCacheHit(_ context.Context, keyType string) {
	o.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (o *Observer) OnCacheMiss(_ context.Context, keyType string) {
	o.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (o *Observer) OnCacheSet(_ context.Context, keyType string, size int) {
	o.cacheOps.WithLabelValues(keyType, "set").Inc()
	o.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (o *Observer) OnRequest(context.Context, string, string, string) {}

func (o *Observer) OnResponse(_ context.Context, method, _, path string, status int, d time.Duration) {
	o.clientReqs.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	o.clientLatency.WithLabelValues(method, path).Observe(d.Seconds())
}

func (o *Observer) OnError(_ context.Context, method, _, path string, _ error) {
	o.clientReqs.WithLabelValues(method, path, "error").Inc()
}

func (o *Observer) OnServed(_ context.Context, method, route string, status int, d time.Duration) {
	o.serverReqs.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	o.serverLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Observer)(nil)
	_ observability.CacheHooks    = (*Observer)(nil)
	_ observability.HTTPHooks     = (*Observer)(nil)
	_ observability.ServerHooks   = (*Observer)(nil)
)
