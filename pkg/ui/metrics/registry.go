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
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/google/btree"
)

// ComponentID identifies the UI component which requested some metrics.
type ComponentID string

// MetricsQuery is the state of the metrics requested by a single component.
// A MetricsQuery is never modified once it is stored in a Registry.
type MetricsQuery struct {
	ID ComponentID
	// Data is the response to Request, the last request which succeeded.
	Data    *tspb.TimeSeriesQueryResponse
	Request *tspb.TimeSeriesQueryRequest
	// Error is the error of the last request which failed. It is cleared when
	// a response is received.
	Error error
	// NextRequest is the request most recently issued. Only its response is
	// accepted.
	NextRequest *tspb.TimeSeriesQueryRequest
}

// registryDegree is the degree of the btree backing a Registry.
const registryDegree = 8

type queryItem struct {
	*MetricsQuery
}

func (i queryItem) Less(than btree.Item) bool {
	return i.ID < than.(queryItem).ID
}

// Registry maps component IDs to the state of their queries. A Registry is
// an immutable value: Upsert returns a new Registry and leaves the receiver
// untouched, so that changes can be detected by comparing pointers.
//
// Upsert must not be called concurrently on the same Registry. Get, Len and
// Ascend are safe to call concurrently with anything.
type Registry struct {
	tree *btree.BTree
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tree: btree.New(registryDegree)}
}

// Get returns the state of the queries of component id.
func (r *Registry) Get(id ComponentID) (*MetricsQuery, bool) {
	item := r.tree.Get(queryItem{&MetricsQuery{ID: id}})
	if item == nil {
		return nil, false
	}
	return item.(queryItem).MetricsQuery, true
}

// Upsert applies fn to the entry of component id, or to a new empty entry
// if there is none, and returns the registry holding the result. If the
// fn returned its argument unchanged, r itself is returned and no entry is
// created. fn must not modify its argument.
func (r *Registry) Upsert(id ComponentID, fn func(*MetricsQuery) *MetricsQuery) *Registry {
	cur, ok := r.Get(id)
	if !ok {
		cur = &MetricsQuery{ID: id}
	}
	next := fn(cur)
	if next == cur {
		return r
	}
	tree := r.tree.Clone()
	tree.ReplaceOrInsert(queryItem{next})
	return &Registry{tree: tree}
}

// Len returns the number of components in the registry.
func (r *Registry) Len() int {
	return r.tree.Len()
}

// Ascend calls fn for every entry in ascending order of component ID, until
// fn returns false.
func (r *Registry) Ascend(fn func(*MetricsQuery) bool) {
	r.tree.Ascend(func(i btree.Item) bool {
		return fn(i.(queryItem).MetricsQuery)
	})
}
