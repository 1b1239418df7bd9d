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
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/rpc"
	"github.com/cockroachdb/dbconsole/pkg/ts/tsclient"
	"github.com/cockroachdb/dbconsole/pkg/ui/dashboard"
	"github.com/cockroachdb/dbconsole/pkg/ui/timewindow"
	"github.com/cockroachdb/dbconsole/pkg/ui/uistate"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/dbconsole/pkg/util/metric"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "display the dashboards of a cluster",
	Long: `
Display every chart of the dashboards over the current window, and display
them again every time the window moves forward.
`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rpcMetrics := rpc.NewMetrics(cliCtx.timeSource)
	querier, closer, err := newQuerier(ctx, rpcMetrics)
	if err != nil {
		return err
	}
	defer func() { _ = closer() }()
	return watch(ctx, querier, rpcMetrics)
}

// watch displays the dashboards using querier until ctx is canceled or,
// with --once, until they have been displayed. The extra metrics are served
// along with the console's.
func watch(ctx context.Context, querier tsclient.Querier, extra ...metric.Struct) error {
	scale, err := lookupScale()
	if err != nil {
		return err
	}
	catalog, err := dashboard.Load(cliCtx.dashboards)
	if err != nil {
		return err
	}
	var ambient log.AmbientContext
	ambient.AddLogTag("watch", nil)
	console, err := uistate.NewConsole(uistate.Config{
		Querier:    querier,
		Catalog:    catalog,
		Nodes:      cliCtx.nodes,
		Scale:      &scale,
		TimeSource: cliCtx.timeSource,
		AmbientCtx: ambient,
	})
	if err != nil {
		return err
	}
	defer console.Close()

	parent := ctx
	g, ctx := errgroup.WithContext(ctx)
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	ctx = ambient.AnnotateCtx(ctx)

	if cliCtx.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		for _, s := range append([]metric.Struct{console.Metrics()}, extra...) {
			if err := metric.RegisterStruct(reg, s); err != nil {
				return err
			}
		}
		if err := serveMetrics(ctx, g, cliCtx.metricsAddr, reg); err != nil {
			return err
		}
	}

	var reloads atomic.Int64
	if cliCtx.dashboards != "" {
		g.Go(func() error {
			return dashboard.Watch(ctx, cliCtx.dashboards, func(c *dashboard.Catalog) {
				if err := console.SetCatalog(c); err != nil {
					log.Warningf(ctx, "ignoring dashboards: %v", err)
					return
				}
				reloads.Add(1)
			})
		})
	}

	changed := make(chan struct{}, 1)
	defer console.Store().Subscribe(func(*uistate.AdminUIState) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})()

	g.Go(func() error {
		console.Run(ctx)
		return nil
	})
	g.Go(func() error {
		type key struct {
			window  *timewindow.Window
			reloads int64
		}
		var rendered key
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
			}
			if !console.Settled() {
				continue
			}
			k := key{window: console.State().TimeWindow.CurrentWindow, reloads: reloads.Load()}
			if k == rendered {
				continue
			}
			rendered = k
			charts := console.Charts()
			w := k.window
			header := fmt.Sprintf("%s window [%s, %s]", scale.Name,
				w.Start.Format(time.DateTime), w.End.Format(time.DateTime))
			if err := renderCharts(cliCtx.out, header, viewCharts(charts), cliCtx.width); err != nil {
				return err
			}
			if !cliCtx.once {
				continue
			}
			for _, ch := range charts {
				if ch.Query.Error != nil {
					return errors.Mark(errors.Wrapf(ch.Query.Error, "%s", ch.Chart.Title), errQueryFailed)
				}
			}
			stop()
			return nil
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}

// serveMetrics serves the metrics of reg on addr until ctx is canceled.
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "serving metrics")
	}
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	srv := &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}
	log.Infof(ctx, "serving metrics on http://%s/metrics", ln.Addr())
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})
	return nil
}
