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

package dashboard

var overviewCharts = []Chart{
	{
		Title: "SQL Statements",
		Metrics: []string{
			"cr.node.sql.select.count",
			"cr.node.sql.update.count",
			"cr.node.sql.insert.count",
			"cr.node.sql.delete.count",
		},
		AxisLabel: "queries",
		Rate:      "non_negative_derivative",
		Tooltip: "A ten-second moving average of the # of SELECT, INSERT, UPDATE, and DELETE statements successfully " +
			"executed per second {{NODES_CLUSTER_SELECTION}}",
	},
	{
		Title: "Service Latency: SQL Statements, 99th percentile",
		Metrics: []string{
			"cr.node.sql.service.latency-p99",
		},
		Units:         "duration",
		AxisLabel:     "latency",
		Downsampler:   "max",
		MetricPerNode: true,
		Tooltip: "Over the last minute, this node executed 99% of SQL statements within this time. " +
			"This time only includes SELECT, INSERT, UPDATE and DELETE statements " +
			"and does not include network latency between the node and client.",
	},
}

var distributedCharts = []Chart{
	{
		Title: "Batches",
		Metrics: []string{
			"cr.node.distsender.batches",
			"cr.node.distsender.batches.partial",
		},
		AxisLabel: "batches",
		Rate:      "non_negative_derivative",
	},
	{
		Title: "KV Transaction Durations: 99th percentile",
		Metrics: []string{
			"cr.node.txn.durations-p99",
		},
		Units:       "duration",
		AxisLabel:   "transaction duration",
		Downsampler: "max",
		Tooltip: "The 99th percentile of transaction durations over a 1 minute period." +
			" Values are displayed individually for each node.",
		MetricPerNode: true,
	},
}

var hardwareCharts = []Chart{
	{
		Title:         "CPU Percent",
		Metrics:       []string{"cr.node.sys.cpu.combined.percent-normalized"},
		AxisLabel:     "CPU",
		Downsampler:   "max",
		MetricPerNode: true,
	},
	{
		Title:         "Memory Usage",
		Metrics:       []string{"cr.node.sys.rss"},
		Units:         "bytes",
		AxisLabel:     "memory usage",
		MetricPerNode: true,
	},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Dashboards: []Dashboard{
			{Title: "Overview", Charts: append([]Chart(nil), overviewCharts...)},
			{Title: "Distributed", Charts: append([]Chart(nil), distributedCharts...)},
			{Title: "Hardware", Charts: append([]Chart(nil), hardwareCharts...)},
		},
	}
}
