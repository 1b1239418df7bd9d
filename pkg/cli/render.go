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
package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/metricquery"
	"github.com/cockroachdb/dbconsole/pkg/ui/uistate"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
)

// plotHeight is the height of plotted charts, in lines.
const plotHeight = 8

type chartView struct {
	title  string
	units  metricquery.AxisUnits
	series []seriesView
	err    error
}

type seriesView struct {
	name   string
	values []float64
}

func viewCharts(charts []uistate.Chart) []chartView {
	views := make([]chartView, 0, len(charts))
	for _, ch := range charts {
		v := chartView{title: ch.Chart.Title}
		if axes := ch.Provider.Graph().Axes; len(axes) > 0 {
			v.units = axes[0].Units
		}
		if ch.Query != nil {
			v.err = ch.Query.Error
		}
		for _, s := range ch.Series {
			v.series = append(v.series, seriesView{name: s.Metric.Title, values: values(s.Datapoints)})
		}
		views = append(views, v)
	}
	return views
}

func values(dps []tspb.TimeSeriesDatapoint) []float64 {
	vals := make([]float64, len(dps))
	for i := range dps {
		vals[i] = dps[i].Value
	}
	return vals
}

// renderCharts writes a summary table of the charts, followed by a plot of
// every chart with data if width is positive.
func renderCharts(w io.Writer, header string, views []chartView, width int) error {
	if header != "" {
		fmt.Fprintln(w, header)
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"chart", "series", "points", "last", "mean", "max", "p99"})
	for _, v := range views {
		if v.err != nil {
			table.Append([]string{v.title, "error: " + v.err.Error(), "", "", "", "", ""})
			continue
		}
		if len(v.series) == 0 {
			table.Append([]string{v.title, "(no data)", "", "", "", "", ""})
			continue
		}
		for _, s := range v.series {
			table.Append(summarize(v.title, v.units, s))
		}
	}
	table.Render()

	if width <= 0 {
		return nil
	}
	for _, v := range views {
		var data [][]float64
		for _, s := range v.series {
			if len(s.values) > 0 {
				data = append(data, s.values)
			}
		}
		if len(data) == 0 {
			continue
		}
		plot := asciigraph.PlotMany(data,
			asciigraph.Height(plotHeight),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("%s (%s)", v.title, v.units)),
		)
		if _, err := fmt.Fprintf(w, "\n%s\n", plot); err != nil {
			return err
		}
	}
	return nil
}

func summarize(title string, units metricquery.AxisUnits, s seriesView) []string {
	row := []string{title, s.name, strconv.Itoa(len(s.values)), "-", "-", "-", "-"}
	if len(s.values) == 0 {
		return row
	}
	data := stats.Float64Data(s.values)
	row[3] = formatValue(units, s.values[len(s.values)-1])
	if mean, err := stats.Mean(data); err == nil {
		row[4] = formatValue(units, mean)
	}
	if mx, err := stats.Max(data); err == nil {
		row[5] = formatValue(units, mx)
	}
	if p99, err := stats.Percentile(data, 99); err == nil {
		row[6] = formatValue(units, p99)
	}
	return row
}

func formatValue(units metricquery.AxisUnits, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	switch units {
	case metricquery.Bytes:
		return humanize.IBytes(uint64(math.Max(v, 0)))
	case metricquery.Duration:
		return time.Duration(v).Round(time.Microsecond).String()
	default:
		return humanize.Commaf(math.Round(v*100) / 100)
	}
}
