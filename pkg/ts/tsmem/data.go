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
	"sort"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/montanaflynn/stats"
)

// DataPoint is a single timestamped value.
type DataPoint struct {
	Timestamp int64
	Value     float64
}

// DataSeries is a series of data points ordered by timestamp.
type DataSeries []DataPoint

func (data DataSeries) Len() int           { return len(data) }
func (data DataSeries) Swap(i, j int)      { data[i], data[j] = data[j], data[i] }
func (data DataSeries) Less(i, j int) bool { return data[i].Timestamp < data[j].Timestamp }

// Datapoints converts the series to its wire representation.
func (data DataSeries) Datapoints() []tspb.TimeSeriesDatapoint {
	result := make([]tspb.TimeSeriesDatapoint, len(data))
	for i, dp := range data {
		result[i] = tspb.TimeSeriesDatapoint{TimestampNanos: dp.Timestamp, Value: dp.Value}
	}
	return result
}

// timeSlice returns the points with start <= timestamp < end.
func (data DataSeries) timeSlice(start, end int64) DataSeries {
	startIdx := sort.Search(len(data), func(i int) bool { return data[i].Timestamp >= start })
	endIdx := sort.Search(len(data), func(i int) bool { return data[i].Timestamp >= end })
	if startIdx >= endIdx {
		return nil
	}
	return data[startIdx:endIdx]
}

// groupByResolution downsamples the series into buckets of width resolution,
// combining the values in each bucket with aggFunc. Each resulting point is
// stamped with the start of its bucket.
func (data DataSeries) groupByResolution(resolution int64, aggFunc aggFunc) DataSeries {
	if len(data) == 0 {
		return nil
	}
	var result DataSeries
	var values []float64
	current := normalizeTime(data[0].Timestamp, resolution)
	for _, dp := range data {
		if bucket := normalizeTime(dp.Timestamp, resolution); bucket != current {
			result = append(result, DataPoint{Timestamp: current, Value: aggFunc(values)})
			current = bucket
			values = values[:0]
		}
		values = append(values, dp.Value)
	}
	return append(result, DataPoint{Timestamp: current, Value: aggFunc(values)})
}

// rateOfChange converts the series into the rate of change of its values per
// period. The first point has no predecessor and is dropped.
func (data DataSeries) rateOfChange(period int64) DataSeries {
	if len(data) < 2 {
		return nil
	}
	result := make(DataSeries, len(data)-1)
	for i := 1; i < len(data); i++ {
		elapsed := float64(data[i].Timestamp-data[i-1].Timestamp) / float64(period)
		result[i-1] = DataPoint{
			Timestamp: data[i].Timestamp,
			Value:     (data[i].Value - data[i-1].Value) / elapsed,
		}
	}
	return result
}

// nonNegative replaces negative values with zero.
func (data DataSeries) nonNegative() DataSeries {
	result := make(DataSeries, len(data))
	for i, dp := range data {
		if dp.Value < 0 {
			dp.Value = 0
		}
		result[i] = dp
	}
	return result
}

// groupSeriesByTimestamp combines several series into one, aggregating the
// values which share a timestamp with aggFunc.
func groupSeriesByTimestamp(datas []DataSeries, aggFunc aggFunc) DataSeries {
	byTimestamp := make(map[int64][]float64)
	for _, data := range datas {
		for _, dp := range data {
			byTimestamp[dp.Timestamp] = append(byTimestamp[dp.Timestamp], dp.Value)
		}
	}
	if len(byTimestamp) == 0 {
		return nil
	}
	result := make(DataSeries, 0, len(byTimestamp))
	for ts, values := range byTimestamp {
		result = append(result, DataPoint{Timestamp: ts, Value: aggFunc(values)})
	}
	sort.Sort(result)
	return result
}

func normalizeTime(time, resolution int64) int64 {
	return time - time%resolution
}

type aggFunc func([]float64) float64

// getAggFunction returns the function implementing agg. The inputs are never
// empty, so the errors returned by the stats package cannot occur.
func getAggFunction(agg tspb.TimeSeriesQueryAggregator) aggFunc {
	var fn func(stats.Float64Data) (float64, error)
	switch agg {
	case tspb.TimeSeriesQueryAggregator_SUM:
		fn = stats.Sum
	case tspb.TimeSeriesQueryAggregator_MAX:
		fn = stats.Max
	case tspb.TimeSeriesQueryAggregator_MIN:
		fn = stats.Min
	default:
		fn = stats.Mean
	}
	return func(values []float64) float64 {
		v, _ := fn(values)
		return v
	}
}
