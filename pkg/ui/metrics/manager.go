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
// Package metrics manages the time series queries of the console's
// components. Requests issued by components during the same tick are
// collected into one batch; the requests of a batch which cover the same
// time span are sent in a single call, and the results are routed back to
// each component's entry in the state.
package metrics

import (
	"context"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/ts/tsclient"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/dbconsole/pkg/util/tick"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
	"github.com/cockroachdb/errors"
)

// failureLogInterval is the minimum interval between query failures logged
// as warnings.
const failureLogInterval = 10 * time.Second

// Config configures a Manager.
type Config struct {
	Querier tsclient.Querier
	// Deferrer schedules the drains of the batcher. Defaults to
	// tick.AfterFunc{}.
	Deferrer tick.Deferrer
	// TimeSource times calls. Defaults to the system clock.
	TimeSource timeutil.TimeSource
	// Metrics defaults to NewMetrics().
	Metrics    *Metrics
	AmbientCtx log.AmbientContext

	// Dispatch and State connect the manager to an enclosing store whose
	// reducer delegates to Reduce. If neither is set, the manager keeps its
	// own store.
	Dispatch func(store.Action)
	State    func() *State
}

// Manager accepts requests for metrics from components and maintains the
// state of their queries.
type Manager struct {
	ambientCtx log.AmbientContext
	ctx        context.Context
	cancel     context.CancelFunc

	store      *store.Store[*State]
	dispatch   func(store.Action)
	state      func() *State
	metrics    *Metrics
	batcher    *Batcher
	dispatcher *Dispatcher
}

// NewManager creates a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Querier == nil {
		return nil, errors.AssertionFailedf("a querier is required")
	}
	if (cfg.Dispatch == nil) != (cfg.State == nil) {
		return nil, errors.AssertionFailedf("Dispatch and State must be set together")
	}
	if cfg.Deferrer == nil {
		cfg.Deferrer = tick.AfterFunc{TimeSource: cfg.TimeSource}
	}
	if cfg.TimeSource == nil {
		cfg.TimeSource = timeutil.DefaultTimeSource{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}
	m := &Manager{
		ambientCtx: cfg.AmbientCtx,
		metrics:    cfg.Metrics,
		dispatch:   cfg.Dispatch,
		state:      cfg.State,
	}
	m.ambientCtx.AddLogTag("metrics", nil)
	m.ctx, m.cancel = context.WithCancel(m.ambientCtx.AnnotateCtx(context.Background()))
	if m.dispatch == nil {
		m.store = store.New(Reduce, NewState())
		m.dispatch = m.store.Dispatch
		m.state = m.store.State
	}
	m.dispatcher = &Dispatcher{
		querier:    cfg.Querier,
		dispatch:   m.dispatch,
		state:      m.state,
		metrics:    m.metrics,
		timeSource: cfg.TimeSource,
		failureLog: log.Every(failureLogInterval),
	}
	m.batcher = NewBatcher(cfg.Deferrer, func(batch []ComponentRequest) {
		m.dispatcher.SendBatch(m.ctx, batch)
	})
	return m, nil
}

// Dispatch applies action. A RequestAction is recorded with a BEGIN action
// and queued for the next batch; every other action goes to the state
// directly.
func (m *Manager) Dispatch(action store.Action) {
	a, ok := action.(RequestAction)
	if !ok {
		m.dispatch(action)
		return
	}
	m.metrics.Requests.Inc()
	m.dispatch(BeginAction{ID: a.ID, Request: a.Request})
	m.batcher.Add(ComponentRequest{ID: a.ID, Request: a.Request})
}

// RequestMetrics requests the data described by req on behalf of component
// id. The request is sent with the other requests issued in the same tick;
// its outcome is recorded in the component's entry of the state.
func (m *Manager) RequestMetrics(id ComponentID, req *tspb.TimeSeriesQueryRequest) {
	m.Dispatch(RequestAction{ID: id, Request: req})
}

// Query returns the state of the queries of component id.
func (m *Manager) Query(id ComponentID) (*MetricsQuery, bool) {
	return m.state().Queries.Get(id)
}

// InFlight returns the number of batches sent and not yet settled.
func (m *Manager) InFlight() int {
	return m.state().InFlight
}

// Pending returns the number of requests waiting for the next batch.
func (m *Manager) Pending() int {
	return m.batcher.Pending()
}

// State returns the current state.
func (m *Manager) State() *State {
	return m.state()
}

// Store returns the manager's own store, or nil if it was configured with
// an enclosing one.
func (m *Manager) Store() *store.Store[*State] {
	return m.store
}

// Metrics returns the manager's metrics.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Close cancels the calls in flight. Their requests fail with the
// cancellation error.
func (m *Manager) Close() {
	m.cancel()
}
