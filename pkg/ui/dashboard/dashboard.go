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
// Package dashboard defines the catalog of dashboards whose charts are
// plotted by the console, and turns charts into graphs whose data is kept
// up to date by the metrics manager.
package dashboard

import (
	"strings"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/metricquery"
	"github.com/cockroachdb/dbconsole/pkg/ui/metrics"
	"github.com/cockroachdb/errors"
	"github.com/mozillazg/go-slugify"
)

// Catalog is a set of dashboards.
type Catalog struct {
	Dashboards []Dashboard `yaml:"dashboards"`
}

// Dashboard is a titled set of charts.
type Dashboard struct {
	Title  string  `yaml:"title"`
	Charts []Chart `yaml:"charts"`
}

// Chart describes a graph of one or more metrics sharing an axis.
type Chart struct {
	Title string `yaml:"title"`
	// Tooltip is displayed when hovering the chart. The placeholder
	// {{NODES_CLUSTER_SELECTION}} is replaced with the node selection.
	Tooltip   string `yaml:"tooltip,omitempty"`
	AxisLabel string `yaml:"axis_label,omitempty"`
	// Units is one of count, bytes or duration. Defaults to count.
	Units string `yaml:"units,omitempty"`
	// Downsampler and Aggregator are one of avg, sum, max or min. They
	// default to avg and sum.
	Downsampler string `yaml:"downsampler,omitempty"`
	Aggregator  string `yaml:"aggregator,omitempty"`
	// Rate is one of none, derivative or non_negative_derivative.
	Rate    string   `yaml:"rate,omitempty"`
	Metrics []string `yaml:"metrics"`
	Sources []string `yaml:"sources,omitempty"`
	// MetricPerNode plots every metric separately for every node.
	MetricPerNode bool `yaml:"metric_per_node,omitempty"`
}

// ID returns the component ID under which the chart requests its data.
func (c *Chart) ID(d *Dashboard) metrics.ComponentID {
	return metrics.ComponentID(slugify.Slugify(d.Title) + "/" + slugify.Slugify(c.Title))
}

// Graph returns the graph plotted by the chart. nodes lists the sources
// plotted separately by charts with MetricPerNode set; when it is empty
// such charts aggregate across sources.
func (c *Chart) Graph(nodes []string) (metricquery.Graph, error) {
	units, err := parseUnits(c.Units)
	if err != nil {
		return metricquery.Graph{}, err
	}
	downsampler, err := parseAggregator(c.Downsampler)
	if err != nil {
		return metricquery.Graph{}, errors.Wrap(err, "downsampler")
	}
	aggregator, err := parseAggregator(c.Aggregator)
	if err != nil {
		return metricquery.Graph{}, errors.Wrap(err, "aggregator")
	}
	rate, err := parseDerivative(c.Rate)
	if err != nil {
		return metricquery.Graph{}, err
	}
	axis := metricquery.Axis{Label: c.AxisLabel, Units: units}
	add := func(name, title string, sources []string) {
		axis.Metrics = append(axis.Metrics, metricquery.Metric{
			Name:        name,
			Title:       title,
			Sources:     sources,
			Downsampler: downsampler,
			Aggregator:  aggregator,
			Derivative:  rate,
		})
	}
	for _, name := range c.Metrics {
		if !c.MetricPerNode || len(nodes) == 0 {
			add(name, metricTitle(name), nil)
			continue
		}
		for _, node := range nodes {
			add(name, metricTitle(name)+" n"+node, []string{node})
		}
	}
	return metricquery.Graph{Title: c.Title, Sources: c.Sources, Axes: []metricquery.Axis{axis}}, nil
}

// metricTitle strips the prefix common to all node metrics.
func metricTitle(name string) string {
	return strings.TrimPrefix(name, "cr.node.")
}

func parseUnits(s string) (metricquery.AxisUnits, error) {
	switch strings.ToLower(s) {
	case "", "count":
		return metricquery.Count, nil
	case "bytes":
		return metricquery.Bytes, nil
	case "duration":
		return metricquery.Duration, nil
	}
	return 0, errors.Newf("unknown units %q", s)
}

func parseAggregator(s string) (*tspb.TimeSeriesQueryAggregator, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := tspb.TimeSeriesQueryAggregator_value[strings.ToUpper(s)]
	if !ok {
		return nil, errors.Newf("unknown aggregator %q", s)
	}
	return tspb.TimeSeriesQueryAggregator(v).Enum(), nil
}

func parseDerivative(s string) (*tspb.TimeSeriesQueryDerivative, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := tspb.TimeSeriesQueryDerivative_value[strings.ToUpper(s)]
	if !ok {
		return nil, errors.Newf("unknown rate %q", s)
	}
	return tspb.TimeSeriesQueryDerivative(v).Enum(), nil
}

// Validate checks that every chart of the catalog can be plotted and that
// chart IDs are unique.
func (c *Catalog) Validate() error {
	var err error
	ids := make(map[metrics.ComponentID]string)
	for i := range c.Dashboards {
		d := &c.Dashboards[i]
		if strings.TrimSpace(d.Title) == "" {
			err = errors.CombineErrors(err, errors.Newf("dashboard %d: missing title", i+1))
			continue
		}
		for j := range d.Charts {
			ch := &d.Charts[j]
			if strings.TrimSpace(ch.Title) == "" {
				err = errors.CombineErrors(err, errors.Newf("%s: chart %d: missing title", d.Title, j+1))
				continue
			}
			if len(ch.Metrics) == 0 {
				err = errors.CombineErrors(err, errors.Newf("%s: %s: no metrics", d.Title, ch.Title))
				continue
			}
			if _, gErr := ch.Graph(nil); gErr != nil {
				err = errors.CombineErrors(err, errors.Wrapf(gErr, "%s: %s", d.Title, ch.Title))
				continue
			}
			id := ch.ID(d)
			if prev, ok := ids[id]; ok {
				err = errors.CombineErrors(err,
					errors.Newf("%s: %s: id %q already used by %s", d.Title, ch.Title, id, prev))
				continue
			}
			ids[id] = d.Title + ": " + ch.Title
		}
	}
	return err
}

// Providers returns a provider for every chart of the catalog, in catalog
// order.
func (c *Catalog) Providers(nodes []string) ([]*metricquery.Provider, error) {
	var providers []*metricquery.Provider
	for i := range c.Dashboards {
		d := &c.Dashboards[i]
		for j := range d.Charts {
			ch := &d.Charts[j]
			g, err := ch.Graph(nodes)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: %s", d.Title, ch.Title)
			}
			p, err := metricquery.NewProvider(ch.ID(d), g)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		}
	}
	return providers, nil
}

// Chart returns the chart with the given id.
func (c *Catalog) Chart(id metrics.ComponentID) (*Dashboard, *Chart, bool) {
	for i := range c.Dashboards {
		d := &c.Dashboards[i]
		for j := range d.Charts {
			if d.Charts[j].ID(d) == id {
				return d, &d.Charts[j], true
			}
		}
	}
	return nil, nil, false
}
