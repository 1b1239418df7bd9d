// Copyright 2026 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.
package rpc

import (
	"context"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/cockroachdb/dbconsole/pkg/util/metric"
	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
)

var (
	metaCalls = metric.Metadata{
		Name:        "rpc.client.calls",
		Help:        "Counter of unary RPCs issued, by method",
		Measurement: "RPCs",
		Unit:        metric.Unit_COUNT,
	}
	metaCallErrors = metric.Metadata{
		Name:        "rpc.client.errors",
		Help:        "Counter of unary RPCs which returned an error, by method",
		Measurement: "RPCs",
		Unit:        metric.Unit_COUNT,
	}
	metaRoundTripLatency = metric.Metadata{
		Name:        "rpc.client.round-trip.latency",
		Help:        "Moving average of round-trip latencies of unary RPCs, by method",
		Measurement: "Latency",
		Unit:        metric.Unit_NANOSECONDS,
	}
)

// Metrics is a metrics struct for client connections.
// Field X is documented in metaX.
type Metrics struct {
	Calls            *prometheus.CounterVec
	CallErrors       *prometheus.CounterVec
	RoundTripLatency *prometheus.GaugeVec

	ts timeutil.TimeSource
	mu struct {
		syncutil.Mutex
		mm map[string]*methodMetrics
	}
}

// MetricStruct implements metric.Struct.
func (*Metrics) MetricStruct() {}

type methodMetrics struct {
	calls      prometheus.Counter
	callErrors prometheus.Counter
	latency    prometheus.Gauge

	// ma is protected by Metrics.mu.
	ma ewma.MovingAverage
}

// NewMetrics creates the client metrics. ts is used to time calls; nil
// means the system clock.
func NewMetrics(ts timeutil.TimeSource) *Metrics {
	if ts == nil {
		ts = timeutil.DefaultTimeSource{}
	}
	return &Metrics{
		Calls:            metric.NewCounterVec(metaCalls, "method"),
		CallErrors:       metric.NewCounterVec(metaCallErrors, "method"),
		RoundTripLatency: metric.NewGaugeVec(metaRoundTripLatency, "method"),
		ts:               ts,
	}
}

func (m *Metrics) loadMethodMetrics(method string) *methodMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mm, ok := m.mu.mm[method]; ok {
		return mm
	}
	if m.mu.mm == nil {
		m.mu.mm = map[string]*methodMetrics{}
	}
	mm := &methodMetrics{
		calls:      m.Calls.WithLabelValues(method),
		callErrors: m.CallErrors.WithLabelValues(method),
		latency:    m.RoundTripLatency.WithLabelValues(method),
		ma:         ewma.NewMovingAverage(),
	}
	m.mu.mm[method] = mm
	return mm
}

func (m *Metrics) recordLatency(mm *methodMetrics, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mm.ma.Add(float64(d.Nanoseconds()))
	mm.latency.Set(mm.ma.Value())
}

// UnaryClientInterceptor returns an interceptor recording every call into
// m.
func (m *Metrics) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		mm := m.loadMethodMetrics(method)
		mm.calls.Inc()
		start := m.ts.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		m.recordLatency(mm, m.ts.Since(start))
		if err != nil {
			mm.callErrors.Inc()
		}
		return err
	}
}
