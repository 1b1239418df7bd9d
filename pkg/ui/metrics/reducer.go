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

import "github.com/cockroachdb/dbconsole/pkg/ui/store"

// State is the state of all metrics queries.
type State struct {
	// InFlight is the number of batches sent and not yet settled.
	InFlight int
	Queries  *Registry
}

// NewState returns the initial state.
func NewState() *State {
	return &State{Queries: NewRegistry()}
}

// Reduce returns the state resulting from applying action to state. Actions
// which do not concern metrics return state itself.
func Reduce(state *State, action store.Action) *State {
	switch a := action.(type) {
	case queryAction:
		queries := state.Queries.Upsert(a.componentID(), func(q *MetricsQuery) *MetricsQuery {
			return reduceQuery(q, action)
		})
		if queries == state.Queries {
			return state
		}
		next := *state
		next.Queries = queries
		return &next
	case FetchAction:
		next := *state
		next.InFlight++
		return &next
	case FetchCompleteAction:
		next := *state
		next.InFlight--
		return &next
	default:
		return state
	}
}

// reduceQuery applies an action to the state of a single component.
func reduceQuery(q *MetricsQuery, action store.Action) *MetricsQuery {
	switch a := action.(type) {
	case BeginAction:
		next := *q
		next.NextRequest = a.Request
		return &next
	case ReceiveAction:
		// Responses to anything but the latest request are dropped.
		if a.Request != q.NextRequest {
			return q
		}
		next := *q
		next.Data = a.Response
		next.Request = a.Request
		next.Error = nil
		return &next
	case ErrorAction:
		// Components are created by their first request.
		if q.NextRequest == nil {
			return q
		}
		next := *q
		next.Error = a.Err
		return &next
	default:
		return q
	}
}
