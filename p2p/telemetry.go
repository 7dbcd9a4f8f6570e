package p2p

import (
	"tezgo/infrastructure/telemetry/metrics"
	"tezgo/infrastructure/telemetry/trafficstats"
)

// Telemetry bundles the optional instrumentation of one socket. A nil
// Telemetry (or nil fields) disables the corresponding sink.
type Telemetry struct {
	Stats   *trafficstats.Collector
	Metrics *metrics.Metrics
}

func (t *Telemetry) chunkSent(wireBytes, plainBytes int) {
	if t == nil {
		return
	}
	if t.Stats != nil {
		t.Stats.AddTXChunk(wireBytes)
	}
	if t.Metrics != nil {
		t.Metrics.ChunksEnciphered.Inc()
		t.Metrics.ChunkPlainBytes.Observe(float64(plainBytes))
	}
}

func (t *Telemetry) chunkReceived(wireBytes int) {
	if t == nil {
		return
	}
	if t.Stats != nil {
		t.Stats.AddRXChunk(wireBytes)
	}
	if t.Metrics != nil {
		t.Metrics.ChunksDeciphered.Inc()
	}
}

func (t *Telemetry) messageRead(family string) {
	if t == nil || t.Metrics == nil {
		return
	}
	t.Metrics.MessagesRead.WithLabelValues(family).Inc()
}

func (t *Telemetry) messageWritten(family string) {
	if t == nil || t.Metrics == nil {
		return
	}
	t.Metrics.MessagesWritten.WithLabelValues(family).Inc()
}
