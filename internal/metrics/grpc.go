// Package metrics exposes request/latency/cache counters for
// Prometheus scraping: a registry built once, with middleware
// recording per-request counters/histograms against it, the way
// rest.NewMetrics/PromeHttpMiddleware do for HTTP, here adapted to a
// gRPC server interceptor.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GRPC holds the counters and histograms recorded around every RPC,
// plus the cache hit/miss counters internal/cache reports into.
type GRPC struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheEvents     *prometheus.CounterVec
}

// NewGRPC registers the gRPC and cache metrics against reg.
func NewGRPC(reg prometheus.Registerer) *GRPC {
	m := &GRPC{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rout3",
			Name:      "grpc_requests_total",
			Help:      "Total gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rout3",
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC request handling latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rout3",
			Name:      "cache_events_total",
			Help:      "Artifact cache hits and misses by cache and event.",
		}, []string{"cache", "event"}),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.cacheEvents)
	return m
}

// RecordCacheEvent is called by internal/cache on every Get: event is
// "hit" or "miss".
func (m *GRPC) RecordCacheEvent(cacheName, event string) {
	m.cacheEvents.WithLabelValues(cacheName, event).Inc()
}

// UnaryServerInterceptor records request count and latency for unary
// RPCs (Version, ListGraphs, ListDatasets).
func (m *GRPC) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.observe(info.FullMethod, start, err)
		return resp, err
	}
}

// StreamServerInterceptor records request count and latency for the
// server-streaming RPCs that make up most of the routing surface.
func (m *GRPC) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		m.observe(info.FullMethod, start, err)
		return err
	}
}

func (m *GRPC) observe(method string, start time.Time, err error) {
	code := status.Code(err)
	m.requestsTotal.WithLabelValues(method, codeString(code)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func codeString(c codes.Code) string {
	return c.String()
}
