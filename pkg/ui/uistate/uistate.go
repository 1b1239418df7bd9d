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
// Package uistate holds the root state of the admin UI, combining the state
// of metrics queries with the global time window.
package uistate

import (
	"github.com/cockroachdb/dbconsole/pkg/ui/metrics"
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/dbconsole/pkg/ui/timewindow"
)

// AdminUIState is the root state of the admin UI.
type AdminUIState struct {
	Metrics    *metrics.State
	TimeWindow *timewindow.State
}

// NewState returns the initial state.
func NewState() *AdminUIState {
	return &AdminUIState{
		Metrics:    metrics.NewState(),
		TimeWindow: timewindow.NewState(),
	}
}

// Reduce applies action to every sub-state. state itself is returned when
// no sub-state changed.
func Reduce(state *AdminUIState, action store.Action) *AdminUIState {
	m := metrics.Reduce(state.Metrics, action)
	tw := timewindow.Reduce(state.TimeWindow, action)
	if m == state.Metrics && tw == state.TimeWindow {
		return state
	}
	return &AdminUIState{Metrics: m, TimeWindow: tw}
}

// NewStore returns a store of the root state.
func NewStore() *store.Store[*AdminUIState] {
	return store.New(Reduce, NewState())
}
