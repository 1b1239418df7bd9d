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

/*
Package metric provides the self-metrics of the console's metrics
subsystem: counters, gauges and moving averages exported to prometheus.

# Adding a new metric

First, describe the metric with a Metadata:

	metaQueriesSent = metric.Metadata{
		Name:        "metrics.queries.sent",
		Help:        "Number of time series queries sent to the server",
		Measurement: "Queries",
		Unit:        metric.Unit_COUNT,
	}

Next, add a field holding the metric to a struct implementing metric.Struct
and create it with NewCounter, NewGauge or NewMovingAverage:

	type Metrics struct {
		QueriesSent prometheus.Counter
	}

	func (Metrics) MetricStruct() {}

Finally, register the struct with a prometheus.Registerer using
RegisterStruct. Every exported field which is a prometheus.Collector is
registered; the exported name is the Metadata name with periods replaced by
underscores, prefixed with "dbconsole_".
*/
package metric
