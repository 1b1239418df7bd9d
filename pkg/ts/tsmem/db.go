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
// Package tsmem is a purely in-memory time series store serving the query
// endpoint, used by tests and by the demo console.
package tsmem

import (
	"sort"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
)

// DB is an in-memory time series database, where time series can be stored
// and queried.
type DB struct {
	mu struct {
		syncutil.RWMutex
		data                    map[seriesKey]DataSeries
		metricNameToDataSources map[string]map[string]struct{}
	}
}

type seriesKey struct {
	name, source string
}

// NewDB instantiates a new DB instance.
func NewDB() *DB {
	db := &DB{}
	db.mu.data = make(map[seriesKey]DataSeries)
	db.mu.metricNameToDataSources = make(map[string]map[string]struct{})
	return db
}

// Record stores the given data series for the supplied metric and data source,
// merging it with any previously recorded data for the same series.
func (db *DB) Record(metricName, dataSource string, data DataSeries) {
	db.mu.Lock()
	defer db.mu.Unlock()
	dataSources, ok := db.mu.metricNameToDataSources[metricName]
	if !ok {
		dataSources = make(map[string]struct{})
		db.mu.metricNameToDataSources[metricName] = dataSources
	}
	dataSources[dataSource] = struct{}{}

	key := seriesKey{name: metricName, source: dataSource}
	merged := append(append(DataSeries(nil), db.mu.data[key]...), data...)
	sort.Stable(merged)
	db.mu.data[key] = merged
}

// Sources returns the data sources recorded for metricName, sorted.
func (db *DB) Sources(metricName string) []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	sources := make([]string, 0, len(db.mu.metricNameToDataSources[metricName]))
	for s := range db.mu.metricNameToDataSources[metricName] {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}

// Query retrieves aggregated data for a single query in the same way that
// a node's time series database does, minus interpolation:
//
// + The downsampler groups each source's points into sample periods.
// + The derivative, if any, turns each source's series into a per-second
// rate of change. A non-negative derivative clamps negative rates to zero.
// + The source aggregator combines the sources by timestamp.
//
// The returned points are stamped with the start of their sample period and
// lie within [start, end).
func (db *DB) Query(q tspb.Query, sampleDuration, start, end int64) DataSeries {
	db.mu.RLock()
	defer db.mu.RUnlock()

	// If explicit sources were not specified, use every source currently
	// available for this particular metric.
	sources := q.Sources
	if len(sources) == 0 {
		sourceMap, ok := db.mu.metricNameToDataSources[q.Name]
		if !ok {
			return nil
		}
		sources = make([]string, 0, len(sourceMap))
		for k := range sourceMap {
			sources = append(sources, k)
		}
	}

	adjustedStart := normalizeTime(start, sampleDuration)
	derivative := q.GetDerivative()
	if derivative != tspb.TimeSeriesQueryDerivative_NONE {
		// The rate of the first period needs the period before it.
		adjustedStart -= sampleDuration
	}
	queryData := make([]DataSeries, 0, len(sources))
	for _, source := range sources {
		data := db.mu.data[seriesKey{name: q.Name, source: source}]
		data = data.timeSlice(adjustedStart, end)
		data = data.groupByResolution(sampleDuration, getAggFunction(q.GetDownsampler()))
		if derivative != tspb.TimeSeriesQueryDerivative_NONE {
			data = data.rateOfChange(time.Second.Nanoseconds())
			if derivative == tspb.TimeSeriesQueryDerivative_NON_NEGATIVE_DERIVATIVE {
				data = data.nonNegative()
			}
		}
		queryData = append(queryData, data)
	}

	return groupSeriesByTimestamp(queryData, getAggFunction(q.GetSourceAggregator())).
		timeSlice(normalizeTime(start, sampleDuration), end)
}
