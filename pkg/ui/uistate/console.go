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

	"github.com/cockroachdb/dbconsole/pkg/ts/tsclient"
	"github.com/cockroachdb/dbconsole/pkg/ui/dashboard"
	"github.com/cockroachdb/dbconsole/pkg/ui/metricquery"
	"github.com/cockroachdb/dbconsole/pkg/ui/metrics"
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/dbconsole/pkg/ui/timewindow"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
	"github.com/cockroachdb/dbconsole/pkg/util/tick"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
	"github.com/cockroachdb/errors"
)

// Config configures a Console.
type Config struct {
	Querier tsclient.Querier
	// Catalog defaults to dashboard.Default().
	Catalog *dashboard.Catalog
	// Nodes are plotted separately by per-node charts.
	Nodes []string
	// Scale is the initial scale. Defaults to timewindow.DefaultScale.
	Scale      *timewindow.Scale
	TimeSource timeutil.TimeSource
	Deferrer   tick.Deferrer
	Metrics    *metrics.Metrics
	AmbientCtx log.AmbientContext
}

// Console keeps the data of every chart of a catalog up to date for the
// current time window.
type Console struct {
	store      *store.Store[*AdminUIState]
	metrics    *metrics.Manager
	timeWindow *timewindow.Manager
	nodes      []string

	mu struct {
		syncutil.Mutex
		catalog   *dashboard.Catalog
		providers []*metricquery.Provider
		// refreshing is set while a goroutine refreshes the charts. Changes
		// observed meanwhile set dirty and are picked up by that goroutine,
		// which may itself be the one dispatching them.
		refreshing, dirty bool
	}
}

// Chart is the state of a single chart.
type Chart struct {
	Dashboard *dashboard.Dashboard
	Chart     *dashboard.Chart
	Provider  *metricquery.Provider
	// Query is nil until the chart's data has been requested.
	Query  *metrics.MetricsQuery
	Series []metricquery.Series
}

// NewConsole creates a Console. Nothing is requested until Run is called.
func NewConsole(cfg Config) (*Console, error) {
	if cfg.Catalog == nil {
		cfg.Catalog = dashboard.Default()
	}
	providers, err := cfg.Catalog.Providers(cfg.Nodes)
	if err != nil {
		return nil, err
	}
	s := NewStore()
	mm, err := metrics.NewManager(metrics.Config{
		Querier:    cfg.Querier,
		Deferrer:   cfg.Deferrer,
		TimeSource: cfg.TimeSource,
		Metrics:    cfg.Metrics,
		AmbientCtx: cfg.AmbientCtx,
		Dispatch:   s.Dispatch,
		State:      func() *metrics.State { return s.State().Metrics },
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating metrics manager")
	}
	c := &Console{
		store:   s,
		metrics: mm,
		timeWindow: timewindow.NewManager(cfg.TimeSource,
			func() *timewindow.State { return s.State().TimeWindow }, s.Dispatch),
		nodes: cfg.Nodes,
	}
	c.mu.catalog = cfg.Catalog
	c.mu.providers = providers
	if cfg.Scale != nil {
		s.Dispatch(timewindow.SetScaleAction{Scale: *cfg.Scale})
	}
	return c, nil
}

// Run advances the time window and refreshes the charts until ctx is
// canceled.
func (c *Console) Run(ctx context.Context) {
	defer c.store.Subscribe(func(*AdminUIState) { c.refresh() })()
	c.refresh()
	c.timeWindow.Run(ctx)
}

// refresh requests the data of every chart whose data is missing or stale.
func (c *Console) refresh() {
	c.mu.Lock()
	if c.mu.refreshing {
		c.mu.dirty = true
		c.mu.Unlock()
		return
	}
	c.mu.refreshing = true
	for {
		c.mu.dirty = false
		providers := c.mu.providers
		c.mu.Unlock()
		c.refreshProviders(providers)
		c.mu.Lock()
		if !c.mu.dirty {
			break
		}
	}
	c.mu.refreshing = false
	c.mu.Unlock()
}

func (c *Console) refreshProviders(providers []*metricquery.Provider) {
	tw := c.store.State().TimeWindow
	// A new window is about to be set for the new scale.
	if tw.ScaleChanged {
		return
	}
	ts, ok := tw.QueryTimeInfo()
	if !ok {
		return
	}
	for _, p := range providers {
		current, _ := c.store.State().Metrics.Queries.Get(p.ID())
		p.Refresh(current, ts, c.metrics.RequestMetrics)
	}
}

// SetScale changes the scale of the time window.
func (c *Console) SetScale(scale timewindow.Scale) {
	c.store.Dispatch(timewindow.SetScaleAction{Scale: scale})
	c.timeWindow.Check()
}

// SetCatalog replaces the charts of the console.
func (c *Console) SetCatalog(catalog *dashboard.Catalog) error {
	providers, err := catalog.Providers(c.nodes)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.mu.catalog = catalog
	c.mu.providers = providers
	c.mu.Unlock()
	c.refresh()
	return nil
}

// Charts returns the state of every chart, in catalog order.
func (c *Console) Charts() []Chart {
	c.mu.Lock()
	catalog, providers := c.mu.catalog, c.mu.providers
	c.mu.Unlock()
	queries := c.store.State().Metrics.Queries
	charts := make([]Chart, 0, len(providers))
	for _, p := range providers {
		d, ch, _ := catalog.Chart(p.ID())
		q, _ := queries.Get(p.ID())
		charts = append(charts, Chart{
			Dashboard: d,
			Chart:     ch,
			Provider:  p,
			Query:     q,
			Series:    p.Series(q),
		})
	}
	return charts
}

// Settled returns whether every chart has requested the data of the
// current window and received a response or an error for it.
func (c *Console) Settled() bool {
	if c.metrics.Pending() > 0 || c.metrics.InFlight() > 0 {
		return false
	}
	state := c.store.State()
	if state.TimeWindow.ScaleChanged {
		return false
	}
	ts, ok := state.TimeWindow.QueryTimeInfo()
	if !ok {
		return false
	}
	for _, ch := range c.Charts() {
		q := ch.Query
		if q == nil || q.NextRequest == nil || q.NextRequest.TimeSpan() != ts {
			return false
		}
		if q.Request != q.NextRequest && q.Error == nil {
			return false
		}
	}
	return true
}

// State returns the root state.
func (c *Console) State() *AdminUIState { return c.store.State() }

// Store returns the root store.
func (c *Console) Store() *store.Store[*AdminUIState] { return c.store }

// Metrics returns the metrics of the query manager.
func (c *Console) Metrics() *metrics.Metrics { return c.metrics.Metrics() }

// Close stops issuing queries.
func (c *Console) Close() { c.metrics.Close() }
