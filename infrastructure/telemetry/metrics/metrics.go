// Package metrics exposes the socket's Prometheus instrumentation.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all socket metrics.
type Metrics struct {
	registry *prometheus.Registry

	ChunksEnciphered prometheus.Counter
	ChunksDeciphered prometheus.Counter
	MessagesRead     *prometheus.CounterVec
	MessagesWritten  *prometheus.CounterVec
	HeadersFetched   prometheus.Counter
	ChunkPlainBytes  prometheus.Histogram
}

// NewMetrics creates a metrics instance on its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		ChunksEnciphered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tezgo_chunks_enciphered_total",
			Help: "Chunks enciphered on the outgoing direction.",
		}),
		ChunksDeciphered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tezgo_chunks_deciphered_total",
			Help: "Chunks deciphered on the incoming direction.",
		}),
		MessagesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tezgo_messages_read_total",
			Help: "Messages reassembled and decoded, by message family.",
		}, []string{"family"}),
		MessagesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tezgo_messages_written_total",
			Help: "Messages encoded and written, by message family.",
		}, []string{"family"}),
		HeadersFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tezgo_block_headers_fetched_total",
			Help: "Block headers appended to the downloaded chain.",
		}),
		ChunkPlainBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tezgo_chunk_plaintext_bytes",
			Help:    "Plaintext size of enciphered chunks.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 9),
		}),
	}
	registry.MustRegister(
		m.ChunksEnciphered,
		m.ChunksDeciphered,
		m.MessagesRead,
		m.MessagesWritten,
		m.HeadersFetched,
		m.ChunkPlainBytes,
	)
	return m
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
