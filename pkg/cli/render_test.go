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
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/dbconsole/pkg/ui/metricquery"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	for _, tc := range []struct {
		units    metricquery.AxisUnits
		v        float64
		expected string
	}{
		{metricquery.Count, 1234.567, "1,234.57"},
		{metricquery.Count, 0, "0"},
		{metricquery.Bytes, 1536, "1.5 KiB"},
		{metricquery.Bytes, -1, "0 B"},
		{metricquery.Duration, 1.5e6, "1.5ms"},
		{metricquery.Count, math.NaN(), "-"},
		{metricquery.Duration, math.Inf(1), "-"},
	} {
		require.Equal(t, tc.expected, formatValue(tc.units, tc.v))
	}
}

func TestRenderCharts(t *testing.T) {
	views := []chartView{
		{
			title: "Memory",
			units: metricquery.Bytes,
			series: []seriesView{
				{name: "sys.rss n1", values: []float64{1024, 2048, 4096}},
				{name: "sys.rss n2", values: nil},
			},
		},
		{title: "Latency", err: errors.New("boom")},
		{title: "Empty"},
	}
	var buf strings.Builder
	require.NoError(t, renderCharts(&buf, "10m window", views, 30))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "10m window\n"), out)
	for _, s := range []string{"sys.rss n1", "4.0 KiB", "error: boom", "(no data)", "Memory (bytes)"} {
		require.Contains(t, out, s)
	}

	// Without a width, nothing is plotted.
	buf.Reset()
	require.NoError(t, renderCharts(&buf, "", views, 0))
	require.NotContains(t, buf.String(), "Memory (bytes)")
}
