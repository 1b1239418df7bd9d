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
package tsmem

import (
	"math"
	"math/rand"
	"strconv"
	"time"
)

// DemoSeries describes a synthetic time series recorded by PopulateDemo.
type DemoSeries struct {
	Name string
	// Counter series increase monotonically; the others oscillate.
	Counter bool
	// Base is the per-second increment of counters, or the mean of gauges.
	Base float64
}

// DemoMetrics are the series recorded by PopulateDemo.
var DemoMetrics = []DemoSeries{
	{Name: "cr.node.sql.select.count", Counter: true, Base: 120},
	{Name: "cr.node.sql.update.count", Counter: true, Base: 30},
	{Name: "cr.node.sql.insert.count", Counter: true, Base: 45},
	{Name: "cr.node.sql.delete.count", Counter: true, Base: 5},
	{Name: "cr.node.sql.service.latency-p99", Base: float64(40 * time.Millisecond)},
	{Name: "cr.node.distsender.batches", Counter: true, Base: 200},
	{Name: "cr.node.distsender.batches.partial", Counter: true, Base: 12},
	{Name: "cr.node.txn.durations-p99", Base: float64(15 * time.Millisecond)},
	{Name: "cr.node.sys.rss", Base: 512 << 20},
	{Name: "cr.node.sys.cpu.combined.percent-normalized", Base: 0.35},
}

// PopulateDemo records the demo series for the given number of nodes,
// sampled every interval over [start, end). The data is deterministic for a
// given seed.
func PopulateDemo(db *DB, nodes int, start, end time.Time, interval time.Duration, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for node := 1; node <= nodes; node++ {
		source := strconv.Itoa(node)
		for _, m := range DemoMetrics {
			db.Record(m.Name, source, demoSeries(rng, m, node, start, end, interval))
		}
	}
}

// AppendDemo records one more sample of every demo series at now, continuing
// the series recorded by PopulateDemo.
func AppendDemo(db *DB, nodes int, now time.Time, interval time.Duration, seed int64) {
	rng := rand.New(rand.NewSource(seed ^ now.UnixNano()))
	for node := 1; node <= nodes; node++ {
		source := strconv.Itoa(node)
		for _, m := range DemoMetrics {
			var last float64
			if dp := db.lastPoint(m.Name, source); dp != nil {
				last = dp.Value
			}
			db.Record(m.Name, source, DataSeries{
				{Timestamp: now.UnixNano(), Value: nextDemoValue(rng, m, node, now, interval, last)},
			})
		}
	}
}

func demoSeries(
	rng *rand.Rand, m DemoSeries, node int, start, end time.Time, interval time.Duration,
) DataSeries {
	var data DataSeries
	var last float64
	for ts := start; ts.Before(end); ts = ts.Add(interval) {
		last = nextDemoValue(rng, m, node, ts, interval, last)
		data = append(data, DataPoint{Timestamp: ts.UnixNano(), Value: last})
	}
	return data
}

func nextDemoValue(
	rng *rand.Rand, m DemoSeries, node int, ts time.Time, interval time.Duration, last float64,
) float64 {
	// A slow wave with a period of an hour, shifted per node.
	phase := float64(ts.Unix()%3600)/3600*2*math.Pi + float64(node)
	wave := 1 + 0.3*math.Sin(phase) + 0.1*(rng.Float64()-0.5)
	if m.Counter {
		return last + m.Base*wave*interval.Seconds()
	}
	return m.Base * wave
}

func (db *DB) lastPoint(name, source string) *DataPoint {
	db.mu.RLock()
	defer db.mu.RUnlock()
	data := db.mu.data[seriesKey{name: name, source: source}]
	if len(data) == 0 {
		return nil
	}
	dp := data[len(data)-1]
	return &dp
}
