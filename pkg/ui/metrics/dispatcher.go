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
package metrics

import (
	"context"

	"github.com/cockroachdb/dbconsole/pkg/ts/tsclient"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// ErrResultCountMismatch marks the errors reported when a response does
// not hold exactly one result per query.
var ErrResultCountMismatch = errors.New("mismatched result count")

// Dispatcher sends drained batches of requests to the query endpoint and
// dispatches the outcome of every request.
type Dispatcher struct {
	querier    tsclient.Querier
	dispatch   func(store.Action)
	state      func() *State
	metrics    *Metrics
	timeSource timeutil.TimeSource
	// failureLog limits the failures logged as warnings. Others are only
	// logged verbosely.
	failureLog *log.EveryN
}

// subBatch is a set of requests sharing a time span.
type subBatch struct {
	key     tspb.BatchKey
	members []ComponentRequest
}

// partition splits batch into sub-batches of requests with equal batch
// keys. Sub-batches are ordered by the first appearance of their key, and
// members keep their order within the batch.
func partition(batch []ComponentRequest) []*subBatch {
	var order []*subBatch
	byKey := make(map[tspb.BatchKey]*subBatch)
	for _, r := range batch {
		key := r.Request.TimeSpan().BatchKey()
		sb, ok := byKey[key]
		if !ok {
			sb = &subBatch{key: key}
			byKey[key] = sb
			order = append(order, sb)
		}
		sb.members = append(sb.members, r)
	}
	return order
}

// SendBatch issues one call per distinct time span of batch and waits for
// all of them to settle. FETCH is dispatched before the first call and
// FETCH_COMPLETE once every call settled, whatever the outcome.
func (d *Dispatcher) SendBatch(ctx context.Context, batch []ComponentRequest) {
	if len(batch) == 0 {
		return
	}
	subBatches := partition(batch)
	log.VEventf(ctx, 2, "sending batch of %d requests in %d calls", len(batch), len(subBatches))
	d.metrics.Batches.Inc()
	d.metrics.InFlight.Inc()
	d.dispatch(FetchAction{})

	var g errgroup.Group
	for _, sb := range subBatches {
		sb := sb
		g.Go(func() error {
			d.sendSubBatch(ctx, sb)
			return nil
		})
	}
	_ = g.Wait()

	d.dispatch(FetchCompleteAction{})
	d.metrics.InFlight.Dec()
}

func (d *Dispatcher) sendSubBatch(ctx context.Context, sb *subBatch) {
	// The composite request takes its sample period from the first member.
	composite := *sb.members[0].Request
	composite.Queries = nil
	for _, m := range sb.members {
		composite.Queries = append(composite.Queries, m.Request.Queries...)
	}
	d.metrics.Calls.Inc()
	d.metrics.Queries.Add(float64(len(composite.Queries)))

	start := d.timeSource.Now()
	resp, err := d.querier.Query(ctx, &composite)
	d.metrics.CallLatency.Add(float64(d.timeSource.Since(start).Nanoseconds()))
	if err == nil && resp == nil {
		err = errors.Newf("empty response for %d queries", len(composite.Queries))
	}
	if err == nil && len(resp.Results) != len(composite.Queries) {
		err = errors.Mark(
			errors.Newf("mismatched count of results (%d) and queries (%d)",
				len(resp.Results), len(composite.Queries)),
			ErrResultCountMismatch)
	}
	if err != nil {
		d.metrics.CallErrors.Inc()
		if d.failureLog != nil && d.failureLog.ShouldLog() {
			log.Warningf(ctx, "query for %s failed: %v", sb.key, err)
		} else {
			log.VEventf(ctx, 1, "query for %s failed: %v", sb.key, err)
		}
		for _, m := range sb.members {
			d.dispatch(ErrorAction{ID: m.ID, Err: err})
		}
		return
	}

	// Hand each member the results of its own queries, in order.
	cursor := 0
	for _, m := range sb.members {
		n := len(m.Request.Queries)
		results := resp.Results[cursor : cursor+n : cursor+n]
		cursor += n
		if d.isStale(m) {
			d.metrics.StaleResponses.Inc()
			log.VEventf(ctx, 2, "response for %s superseded by a newer request", m.ID)
		}
		d.dispatch(ReceiveAction{
			ID:       m.ID,
			Request:  m.Request,
			Response: &tspb.TimeSeriesQueryResponse{Results: results},
		})
	}
}

// isStale returns whether the component issued a request after m. The
// reducer drops stale responses on its own; this is only used for
// accounting.
func (d *Dispatcher) isStale(m ComponentRequest) bool {
	if d.state == nil {
		return false
	}
	q, ok := d.state().Queries.Get(m.ID)
	return !ok || q.NextRequest != m.Request
}
