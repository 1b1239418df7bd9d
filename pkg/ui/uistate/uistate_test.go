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
package uistate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/ts/tsmem"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/dashboard"
	"github.com/cockroachdb/dbconsole/pkg/ui/metrics"
	"github.com/cockroachdb/dbconsole/pkg/ui/timewindow"
	"github.com/cockroachdb/dbconsole/pkg/util/tick"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
	"github.com/stretchr/testify/require"
)

type otherAction struct{}

func (otherAction) Type() string { return "other" }

func TestReduce(t *testing.T) {
	s := NewState()
	require.Same(t, s, Reduce(s, otherAction{}))

	next := Reduce(s, metrics.FetchAction{})
	require.NotSame(t, s, next)
	require.Same(t, s.TimeWindow, next.TimeWindow)
	require.Equal(t, 1, next.Metrics.InFlight)

	scale, err := timewindow.LookupScale("1h")
	require.NoError(t, err)
	next = Reduce(next, timewindow.SetScaleAction{Scale: scale})
	require.Equal(t, "1h", next.TimeWindow.Scale.Name)
	require.Equal(t, 1, next.Metrics.InFlight)

	// Both sub-states see every action.
	req := &tspb.TimeSeriesQueryRequest{Queries: []tspb.Query{{Name: "m"}}}
	next = Reduce(next, metrics.BeginAction{ID: "a", Request: req})
	q, ok := next.Metrics.Queries.Get("a")
	require.True(t, ok)
	require.Same(t, req, q.NextRequest)
}

func TestConsole(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	db := tsmem.NewDB()
	tsmem.PopulateDemo(db, 3, t0.Add(-time.Hour), t0, 10*time.Second, 1)
	srv := tsmem.NewServer(db, tsmem.TestingKnobs{})

	mt := timeutil.NewManualTime(t0)
	deferrer := &tick.Manual{}
	c, err := NewConsole(Config{
		Querier:    srv,
		Nodes:      []string{"1", "2", "3"},
		TimeSource: mt,
		Deferrer:   deferrer,
	})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	settle := func() {
		t.Helper()
		require.Eventually(t, func() bool {
			deferrer.Flush()
			return c.Settled()
		}, 10*time.Second, time.Millisecond)
	}
	settle()

	// Every chart of the default catalog was requested in a single call.
	require.EqualValues(t, 1, srv.Requests())
	charts := c.Charts()
	require.Len(t, charts, 6)
	for _, ch := range charts {
		require.NoError(t, ch.Query.Error)
		require.NotEmpty(t, ch.Series, ch.Provider.ID())
		for _, s := range ch.Series {
			require.NotEmpty(t, s.Datapoints, "%s %s", ch.Provider.ID(), s.Metric.Title)
		}
	}
	// Per-node charts plot one series per node.
	require.Equal(t, "overview/service-latency-sql-statements-99th-percentile", string(charts[1].Provider.ID()))
	require.Len(t, charts[1].Series, 3)

	// Once the window expires, a new one is requested.
	window := c.State().TimeWindow.CurrentWindow
	mt.Advance(10 * time.Second)
	require.Eventually(t, func() bool {
		return c.State().TimeWindow.CurrentWindow != window
	}, 10*time.Second, time.Millisecond)
	settle()
	require.EqualValues(t, 2, srv.Requests())
	ts, ok := c.State().TimeWindow.QueryTimeInfo()
	require.True(t, ok)
	for _, ch := range c.Charts() {
		require.Equal(t, ts, ch.Query.Request.TimeSpan())
	}

	// Changing the scale changes the sample period of every request.
	scale, err := timewindow.LookupScale("1h")
	require.NoError(t, err)
	c.SetScale(scale)
	require.Eventually(t, func() bool {
		return c.State().TimeWindow.Scale.Name == "1h" && !c.State().TimeWindow.ScaleChanged
	}, 10*time.Second, time.Millisecond)
	settle()
	require.EqualValues(t, 3, srv.Requests())
	for _, ch := range c.Charts() {
		require.Equal(t, int64(30*time.Second), ch.Query.Request.SampleNanos)
	}

	// Replacing the catalog requests the new charts.
	catalog := &dashboard.Catalog{Dashboards: []dashboard.Dashboard{{
		Title:  "Custom",
		Charts: []dashboard.Chart{{Title: "Memory", Metrics: []string{"cr.node.sys.rss"}}},
	}}}
	require.NoError(t, c.SetCatalog(catalog))
	settle()
	require.EqualValues(t, 4, srv.Requests())
	charts = c.Charts()
	require.Len(t, charts, 1)
	require.Equal(t, "Memory", charts[0].Chart.Title)
	require.Len(t, charts[0].Series, 1)
}
