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
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/cli/cliflags"
	"github.com/cockroachdb/dbconsole/pkg/rpc"
	"github.com/cockroachdb/dbconsole/pkg/ts/tsclient"
	"github.com/cockroachdb/dbconsole/pkg/ts/tsmem"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "display the dashboards of a synthetic cluster",
	Long: `
Start an in-memory time series backend filled with synthetic data for a few
nodes, and display its dashboards as the watch command does.
`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

// demoSeed makes the synthetic data reproducible.
const demoSeed = 1

func runDemo(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	scale, err := lookupScale()
	if err != nil {
		return err
	}
	if cliCtx.demoNodes <= 0 {
		return markFlagError(errors.Newf("--%s must be positive", cliflags.DemoNodes.Name))
	}
	// Coarser data for larger windows.
	interval := cliCtx.demoInterval
	if interval < scale.SampleSize {
		interval = scale.SampleSize
	}
	now := cliCtx.timeSource.Now()
	db := tsmem.NewDB()
	tsmem.PopulateDemo(db, cliCtx.demoNodes, now.Add(-scale.WindowSize-time.Hour), now, interval, demoSeed)
	srv := tsmem.NewServer(db, tsmem.TestingKnobs{})
	if len(cliCtx.nodes) == 0 {
		for i := 1; i <= cliCtx.demoNodes; i++ {
			cliCtx.nodes = append(cliCtx.nodes, strconv.Itoa(i))
		}
	}

	ln, err := net.Listen("tcp", cliCtx.demoListen)
	if err != nil {
		return errors.Wrap(err, "starting demo backend")
	}
	parent := ctx
	g, ctx := errgroup.WithContext(ctx)
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	switch cliCtx.transport {
	case tsclient.TransportGRPC:
		s := rpc.NewServer()
		tspb.RegisterTimeSeriesServer(s, srv)
		g.Go(func() error { return s.Serve(ln) })
		g.Go(func() error {
			<-ctx.Done()
			s.Stop()
			return nil
		})
		cliCtx.url = ln.Addr().String()
	default:
		s := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := s.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return s.Close()
		})
		cliCtx.url = "http://" + ln.Addr().String()
	}
	log.Infof(ctx, "demo backend for %d nodes listening on %s", cliCtx.demoNodes, cliCtx.url)

	g.Go(func() error {
		timer := cliCtx.timeSource.NewTimer()
		defer timer.Stop()
		for {
			timer.Reset(interval)
			select {
			case <-ctx.Done():
				return nil
			case now := <-timer.Ch():
				timer.MarkRead()
				tsmem.AppendDemo(db, cliCtx.demoNodes, now, interval, demoSeed)
			}
		}
	})
	g.Go(func() error {
		defer stop()
		rpcMetrics := rpc.NewMetrics(cliCtx.timeSource)
		querier, closer, err := newQuerier(ctx, rpcMetrics)
		if err != nil {
			return err
		}
		defer func() { _ = closer() }()
		return watch(ctx, querier, rpcMetrics)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
