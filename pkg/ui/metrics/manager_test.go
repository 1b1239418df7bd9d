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
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/dbconsole/pkg/util/tick"
	"github.com/stretchr/testify/require"
)

// TestManagerDataDriven drives a Manager through batching scenarios.
//
//	request id=<component> start=<nanos> end=<nanos> [sample=<nanos>] queries=<name>[,<name>...]
//	querier [fail=<name>] [drop=<name>] [reset]
//	flush
//	state
func TestManagerDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		var deferrer tick.Manual
		q := newFakeQuerier()
		rec := newRecorder()
		m, err := NewManager(Config{
			Querier:  q,
			Deferrer: &deferrer,
			Dispatch: rec.dispatch,
			State:    rec.store.State,
		})
		require.NoError(t, err)
		labels := map[*tspb.TimeSeriesQueryRequest]string{}
		label := func(req *tspb.TimeSeriesQueryRequest) string {
			if req == nil {
				return "-"
			}
			return labels[req]
		}
		formatAction := func(a store.Action) string {
			switch a := a.(type) {
			case BeginAction:
				return fmt.Sprintf("BEGIN %s %s", a.ID, label(a.Request))
			case ReceiveAction:
				return fmt.Sprintf("RECEIVE %s %s results=%s", a.ID, label(a.Request), resultNames(a.Response))
			case ErrorAction:
				return fmt.Sprintf("ERROR %s %v", a.ID, a.Err)
			case FetchAction:
				return "FETCH"
			case FetchCompleteAction:
				return "FETCH_COMPLETE"
			default:
				return a.Type()
			}
		}

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			var buf strings.Builder
			switch d.Cmd {
			case "request":
				var id, queries string
				var start, end int
				sample := 10
				d.ScanArgs(t, "id", &id)
				d.ScanArgs(t, "start", &start)
				d.ScanArgs(t, "end", &end)
				if d.HasArg("sample") {
					d.ScanArgs(t, "sample", &sample)
				}
				d.ScanArgs(t, "queries", &queries)
				req := makeRequest(int64(start), int64(end), int64(sample), strings.Split(queries, ",")...)
				labels[req] = fmt.Sprintf("r%d", len(labels)+1)
				m.RequestMetrics(ComponentID(id), req)
				for _, a := range rec.takeActions() {
					fmt.Fprintln(&buf, formatAction(a))
				}
				fmt.Fprintf(&buf, "queued=%d drains=%d\n", m.batcher.Pending(), deferrer.Pending())

			case "querier":
				q.mu.Lock()
				if d.HasArg("reset") {
					q.mu.fail = map[string]bool{}
					q.mu.drop = map[string]bool{}
				}
				if d.HasArg("fail") {
					var name string
					d.ScanArgs(t, "fail", &name)
					q.mu.fail[name] = true
				}
				if d.HasArg("drop") {
					var name string
					d.ScanArgs(t, "drop", &name)
					q.mu.drop[name] = true
				}
				q.mu.Unlock()
				return "ok"

			case "flush":
				deferrer.Flush()
				for _, c := range q.takeCalls() {
					fmt.Fprintln(&buf, c)
				}
				// Calls run concurrently, so only the first and last actions
				// have a fixed position.
				actions := rec.takeActions()
				var lines []string
				for _, a := range actions {
					lines = append(lines, formatAction(a))
				}
				if len(lines) > 2 {
					sort.Strings(lines[1 : len(lines)-1])
				}
				for _, l := range lines {
					fmt.Fprintln(&buf, l)
				}
				fmt.Fprintf(&buf, "inflight=%d\n", m.InFlight())

			case "state":
				m.State().Queries.Ascend(func(mq *MetricsQuery) bool {
					fmt.Fprintf(&buf, "%s: next=%s request=%s data=%s error=%v\n",
						mq.ID, label(mq.NextRequest), label(mq.Request), resultNames(mq.Data), mq.Error)
					return true
				})
				fmt.Fprintf(&buf, "inflight=%d\n", m.InFlight())

			default:
				d.Fatalf(t, "unknown command %s", d.Cmd)
			}
			return buf.String()
		})
	})
}

func TestManagerOwnStore(t *testing.T) {
	var deferrer tick.Manual
	m, err := NewManager(Config{Querier: newFakeQuerier(), Deferrer: &deferrer})
	require.NoError(t, err)
	require.NotNil(t, m.Store())

	var notified int
	m.Store().Subscribe(func(*State) { notified++ })

	req := makeRequest(0, 10, 1, "x")
	m.RequestMetrics("a", req)
	mq, ok := m.Query("a")
	require.True(t, ok)
	require.Same(t, req, mq.NextRequest)
	require.Nil(t, mq.Data)
	require.Equal(t, 1, notified)

	deferrer.Flush()
	mq, _ = m.Query("a")
	require.Same(t, req, mq.Request)
	require.Equal(t, "x", resultNames(mq.Data))
	require.Equal(t, 0, m.InFlight())
	// BEGIN, FETCH, RECEIVE and FETCH_COMPLETE each changed the state.
	require.Equal(t, 4, notified)

	_, ok = m.Query("b")
	require.False(t, ok)
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(Config{})
	require.Error(t, err)
	_, err = NewManager(Config{
		Querier:  newFakeQuerier(),
		Dispatch: func(store.Action) {},
	})
	require.Error(t, err)
}
