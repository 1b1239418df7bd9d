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
package metrics

import (
	"github.com/cockroachdb/dbconsole/pkg/util/metric"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metaRequests = metric.Metadata{
		Name:        "metrics.requests",
		Help:        "Number of component requests for metrics",
		Measurement: "Requests",
		Unit:        metric.Unit_COUNT,
	}
	metaBatches = metric.Metadata{
		Name:        "metrics.batches",
		Help:        "Number of batches of requests drained",
		Measurement: "Batches",
		Unit:        metric.Unit_COUNT,
	}
	metaCalls = metric.Metadata{
		Name:        "metrics.calls",
		Help:        "Number of calls to the query endpoint, one per distinct time span of a batch",
		Measurement: "Calls",
		Unit:        metric.Unit_COUNT,
	}
	metaQueries = metric.Metadata{
		Name:        "metrics.queries",
		Help:        "Number of time series queries sent",
		Measurement: "Queries",
		Unit:        metric.Unit_COUNT,
	}
	metaCallErrors = metric.Metadata{
		Name:        "metrics.calls.errors",
		Help:        "Number of calls which failed or returned a mismatched number of results",
		Measurement: "Calls",
		Unit:        metric.Unit_COUNT,
	}
	metaStaleResponses = metric.Metadata{
		Name:        "metrics.responses.stale",
		Help:        "Number of responses received for a request that had been superseded",
		Measurement: "Responses",
		Unit:        metric.Unit_COUNT,
	}
	metaInFlight = metric.Metadata{
		Name:        "metrics.batches.inflight",
		Help:        "Number of batches sent and not yet settled",
		Measurement: "Batches",
		Unit:        metric.Unit_COUNT,
	}
	metaCallLatency = metric.Metadata{
		Name:        "metrics.calls.latency",
		Help:        "Moving average of the latency of calls to the query endpoint",
		Measurement: "Latency",
		Unit:        metric.Unit_NANOSECONDS,
	}
)

// Metrics holds the metrics of a Manager.
// Field X is documented in metaX.
type Metrics struct {
	Requests       prometheus.Counter
	Batches        prometheus.Counter
	Calls          prometheus.Counter
	Queries        prometheus.Counter
	CallErrors     prometheus.Counter
	StaleResponses prometheus.Counter
	InFlight       prometheus.Gauge
	CallLatency    *metric.MovingAverage
}

// MetricStruct implements metric.Struct.
func (*Metrics) MetricStruct() {}

// NewMetrics creates the metrics of a Manager.
func NewMetrics() *Metrics {
	return &Metrics{
		Requests:       metric.NewCounter(metaRequests),
		Batches:        metric.NewCounter(metaBatches),
		Calls:          metric.NewCounter(metaCalls),
		Queries:        metric.NewCounter(metaQueries),
		CallErrors:     metric.NewCounter(metaCallErrors),
		StaleResponses: metric.NewCounter(metaStaleResponses),
		InFlight:       metric.NewGauge(metaInFlight),
		CallLatency:    metric.NewMovingAverage(metaCallLatency),
	}
}
