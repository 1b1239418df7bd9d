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
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/cockroachdb/dbconsole/pkg/rpc"
	"github.com/cockroachdb/dbconsole/pkg/ts/tsclient"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/metricquery"
	"github.com/cockroachdb/dbconsole/pkg/ui/metrics"
	"github.com/cockroachdb/dbconsole/pkg/ui/timewindow"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <metric> [<metric>...]",
	Short: "query metrics over the current window",
	Long: `
Query the given metrics over the window of the selected scale ending now, and
display a summary of every series. All metrics are requested in one call.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

// commandContext returns a context canceled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

// newQuerier connects to the node selected by the flags.
func newQuerier(ctx context.Context, rpcMetrics *rpc.Metrics) (tsclient.Querier, func() error, error) {
	return tsclient.New(ctx, tsclient.Config{
		URL:       cliCtx.url,
		Transport: cliCtx.transport,
		Timeout:   cliCtx.timeout,
		Dial:      rpc.DialOptions{Metrics: rpcMetrics},
	})
}

// lookupScale returns the scale selected by the flags.
func lookupScale() (timewindow.Scale, error) {
	scale, err := timewindow.LookupScale(cliCtx.scale)
	if err != nil {
		return timewindow.Scale{}, markFlagError(err)
	}
	return scale, nil
}

// currentSpan returns the time span of a window of the given scale ending
// now.
func currentSpan(scale timewindow.Scale) tspb.TimeSpan {
	state := timewindow.Reduce(timewindow.NewState(), timewindow.SetScaleAction{Scale: scale})
	w, _ := timewindow.Decide(state, cliCtx.timeSource.Now())
	state = timewindow.Reduce(state, timewindow.SetWindowAction{Window: *w})
	ts, _ := state.QueryTimeInfo()
	return ts
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	scale, err := lookupScale()
	if err != nil {
		return err
	}
	var rate *tspb.TimeSeriesQueryDerivative
	if cliCtx.rate != "" {
		v, ok := tspb.TimeSeriesQueryDerivative_value[strings.ToUpper(cliCtx.rate)]
		if !ok {
			return markFlagError(errors.Newf("unknown rate %q", cliCtx.rate))
		}
		rate = tspb.TimeSeriesQueryDerivative(v).Enum()
	}
	querier, closer, err := newQuerier(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closer() }()

	mgr, err := metrics.NewManager(metrics.Config{Querier: querier, TimeSource: cliCtx.timeSource})
	if err != nil {
		return err
	}
	defer mgr.Close()

	changed := make(chan struct{}, 1)
	defer mgr.Store().Subscribe(func(*metrics.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})()

	// Every metric is requested by its own provider; the requests are sent
	// together.
	ts := currentSpan(scale)
	providers := make([]*metricquery.Provider, len(args))
	for i, name := range args {
		p, err := metricquery.NewProvider(metrics.ComponentID(name), metricquery.Graph{
			Title:   name,
			Sources: cliCtx.sources,
			Axes:    []metricquery.Axis{{Metrics: []metricquery.Metric{{Name: name, Title: name, Derivative: rate}}}},
		})
		if err != nil {
			return err
		}
		providers[i] = p
		p.Refresh(nil, ts, mgr.RequestMetrics)
	}
	log.VEventf(ctx, 1, "requested %d metrics over %s", len(providers), ts)

	done := func() bool {
		for _, p := range providers {
			q, ok := mgr.Query(p.ID())
			if !ok || (q.Request != q.NextRequest && q.Error == nil) {
				return false
			}
		}
		return true
	}
	for !done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}

	var views []chartView
	var failed bool
	for _, p := range providers {
		q, _ := mgr.Query(p.ID())
		v := chartView{title: p.Graph().Title, err: q.Error}
		if q.Error != nil {
			failed = true
		}
		for _, s := range p.Series(q) {
			v.series = append(v.series, seriesView{name: s.Metric.Title, values: values(s.Datapoints)})
		}
		views = append(views, v)
	}
	header := fmt.Sprintf("%s window, %s", scale.Name, ts)
	if err := renderCharts(cliCtx.out, header, views, cliCtx.width); err != nil {
		return err
	}
	if failed {
		return errQueryFailed
	}
	return nil
}
