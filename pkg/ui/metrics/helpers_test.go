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
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
	"github.com/cockroachdb/errors"
)

// fakeQuerier answers every query with a single datapoint. Calls including
// a query named in fail return an error, and calls including a query named
// in empty return neither a response nor an error. The result of a query
// named in drop is left out of the response.
type fakeQuerier struct {
	mu struct {
		syncutil.Mutex
		fail  map[string]bool
		drop  map[string]bool
		empty map[string]bool
		calls []*tspb.TimeSeriesQueryRequest
	}
}

func newFakeQuerier() *fakeQuerier {
	f := &fakeQuerier{}
	f.mu.fail = map[string]bool{}
	f.mu.drop = map[string]bool{}
	f.mu.empty = map[string]bool{}
	return f
}

func (f *fakeQuerier) Query(
	_ context.Context, req *tspb.TimeSeriesQueryRequest,
) (*tspb.TimeSeriesQueryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mu.calls = append(f.mu.calls, req)
	resp := &tspb.TimeSeriesQueryResponse{}
	for _, q := range req.Queries {
		if f.mu.fail[q.Name] {
			return nil, errors.Newf("query %s: connection refused", q.Name)
		}
		if f.mu.empty[q.Name] {
			return nil, nil
		}
		if f.mu.drop[q.Name] {
			continue
		}
		resp.Results = append(resp.Results, tspb.TimeSeriesQueryResponse_Result{
			Query:      q,
			Datapoints: []tspb.TimeSeriesDatapoint{{TimestampNanos: req.StartNanos, Value: 1}},
		})
	}
	return resp, nil
}

// takeCalls returns the calls made since the last call to takeCalls,
// formatted and sorted.
func (f *fakeQuerier) takeCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var calls []string
	for _, req := range f.mu.calls {
		calls = append(calls, fmt.Sprintf("call [%d,%d) sample=%d queries=%s",
			req.StartNanos, req.EndNanos, req.SampleNanos, queryNames(req.Queries)))
	}
	f.mu.calls = nil
	sort.Strings(calls)
	return calls
}

func queryNames(queries []tspb.Query) string {
	names := make([]string, len(queries))
	for i := range queries {
		names[i] = queries[i].Name
	}
	return strings.Join(names, ",")
}

func resultNames(resp *tspb.TimeSeriesQueryResponse) string {
	if resp == nil {
		return "<nil>"
	}
	names := make([]string, len(resp.Results))
	for i := range resp.Results {
		names[i] = resp.Results[i].Name
	}
	return strings.Join(names, ",")
}

// recorder wraps a store and records the actions dispatched to it.
type recorder struct {
	store *store.Store[*State]
	mu    struct {
		syncutil.Mutex
		actions []store.Action
	}
}

func newRecorder() *recorder {
	return &recorder{store: store.New(Reduce, NewState())}
}

func (r *recorder) dispatch(action store.Action) {
	r.mu.Lock()
	r.mu.actions = append(r.mu.actions, action)
	r.mu.Unlock()
	r.store.Dispatch(action)
}

func (r *recorder) takeActions() []store.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := r.mu.actions
	r.mu.actions = nil
	return actions
}

func makeRequest(start, end, sample int64, names ...string) *tspb.TimeSeriesQueryRequest {
	req := &tspb.TimeSeriesQueryRequest{StartNanos: start, EndNanos: end, SampleNanos: sample}
	for _, n := range names {
		req.Queries = append(req.Queries, tspb.Query{Name: n})
	}
	return req
}

var fakeResponse = tspb.TimeSeriesQueryResponse{
	Results: []tspb.TimeSeriesQueryResponse_Result{{Query: tspb.Query{Name: "m"}}},
}
