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
// Package metricquery describes graphs of time series and keeps the data of
// a graph up to date through the metrics manager.
package metricquery

import (
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/metrics"
	"github.com/cockroachdb/errors"
)

// AxisUnits is the unit of the values plotted on an axis.
type AxisUnits int

// Units supported by axes.
const (
	Count AxisUnits = iota
	Bytes
	Duration
)

func (u AxisUnits) String() string {
	switch u {
	case Bytes:
		return "bytes"
	case Duration:
		return "duration"
	default:
		return "count"
	}
}

// Metric is a time series plotted on an axis. Nil aggregation options mean
// AVG downsampling, SUM across sources and no derivative.
type Metric struct {
	Name        string
	Title       string
	Sources     []string
	Downsampler *tspb.TimeSeriesQueryAggregator
	Aggregator  *tspb.TimeSeriesQueryAggregator
	Derivative  *tspb.TimeSeriesQueryDerivative
}

// Axis is a set of metrics sharing units.
type Axis struct {
	Label   string
	Units   AxisUnits
	Metrics []Metric
}

// Graph is a set of axes displayed together. Sources apply to every metric
// which does not specify its own.
type Graph struct {
	Title   string
	Sources []string
	Axes    []Axis
}

// Series is the data of a single metric of a graph.
type Series struct {
	Axis       *Axis
	Metric     *Metric
	Datapoints []tspb.TimeSeriesDatapoint
}

// Provider issues the requests of a graph and extracts the graph's data
// from the state of its query.
type Provider struct {
	id      metrics.ComponentID
	graph   Graph
	queries []tspb.Query
}

// NewProvider returns a provider for graph, identified by id.
func NewProvider(id metrics.ComponentID, graph Graph) (*Provider, error) {
	p := &Provider{id: id, graph: graph}
	for _, axis := range graph.Axes {
		for _, m := range axis.Metrics {
			if m.Name == "" {
				return nil, errors.Newf("graph %q: metric without a name", graph.Title)
			}
			sources := m.Sources
			if len(sources) == 0 {
				sources = graph.Sources
			}
			p.queries = append(p.queries, tspb.Query{
				Name:             m.Name,
				Downsampler:      withDefault(m.Downsampler, tspb.TimeSeriesQueryAggregator_AVG),
				SourceAggregator: withDefault(m.Aggregator, tspb.TimeSeriesQueryAggregator_SUM),
				Derivative:       withDefault(m.Derivative, tspb.TimeSeriesQueryDerivative_NONE),
				Sources:          sources,
			})
		}
	}
	if len(p.queries) == 0 {
		return nil, errors.Newf("graph %q has no metrics", graph.Title)
	}
	return p, nil
}

func withDefault[T ~int32](v *T, def T) *T {
	if v != nil {
		return v
	}
	return &def
}

// ID returns the component ID of the graph.
func (p *Provider) ID() metrics.ComponentID { return p.id }

// Graph returns the graph.
func (p *Provider) Graph() *Graph { return &p.graph }

// Request returns a new request for the graph's data over ts.
func (p *Provider) Request(ts tspb.TimeSpan) *tspb.TimeSeriesQueryRequest {
	return &tspb.TimeSeriesQueryRequest{
		StartNanos:  ts.StartNanos,
		EndNanos:    ts.EndNanos,
		SampleNanos: ts.SampleNanos,
		Queries:     append([]tspb.Query(nil), p.queries...),
	}
}

// Refresh requests the graph's data over ts unless the latest request
// issued for the graph, per current, already covers it. It returns whether
// a request was issued. current may be nil.
func (p *Provider) Refresh(
	current *metrics.MetricsQuery,
	ts tspb.TimeSpan,
	request func(metrics.ComponentID, *tspb.TimeSeriesQueryRequest),
) bool {
	if current != nil && current.NextRequest != nil &&
		current.NextRequest.TimeSpan() == ts &&
		tspb.QueriesEqual(current.NextRequest.Queries, p.queries) {
		return false
	}
	request(p.id, p.Request(ts))
	return true
}

// Data returns the last data received for the graph, provided it answers
// the graph's current queries. The data may cover another time span than
// the current window.
func (p *Provider) Data(current *metrics.MetricsQuery) *tspb.TimeSeriesQueryResponse {
	if current == nil || current.Data == nil || current.Request == nil {
		return nil
	}
	if !tspb.QueriesEqual(current.Request.Queries, p.queries) {
		return nil
	}
	return current.Data
}

// Series returns the data of every metric of the graph, in axis order, or
// nil if there is no data.
func (p *Provider) Series(current *metrics.MetricsQuery) []Series {
	data := p.Data(current)
	if data == nil || len(data.Results) != len(p.queries) {
		return nil
	}
	series := make([]Series, 0, len(p.queries))
	i := 0
	for a := range p.graph.Axes {
		axis := &p.graph.Axes[a]
		for m := range axis.Metrics {
			series = append(series, Series{
				Axis:       axis,
				Metric:     &axis.Metrics[m],
				Datapoints: data.Results[i].Datapoints,
			})
			i++
		}
	}
	return series
}
