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
// Package timewindow maintains the global time window displayed by the
// console's graphs.
package timewindow

import (
	"time"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/errors"
)

// Scale describes the time window displayed by graphs.
type Scale struct {
	Name string
	// WindowSize is the length of the window.
	WindowSize time.Duration
	// WindowValid is how long a window remains current after its end.
	WindowValid time.Duration
	// SampleSize is the sample period requested for the window.
	SampleSize time.Duration
	// WindowEnd, if set, fixes the end of the window, which then never
	// expires.
	WindowEnd *time.Time
}

// Scales are the predefined scales, shortest first.
var Scales = []Scale{
	{Name: "10m", WindowSize: 10 * time.Minute, WindowValid: 10 * time.Second, SampleSize: 10 * time.Second},
	{Name: "1h", WindowSize: time.Hour, WindowValid: time.Minute, SampleSize: 30 * time.Second},
	{Name: "6h", WindowSize: 6 * time.Hour, WindowValid: 5 * time.Minute, SampleSize: time.Minute},
	{Name: "1d", WindowSize: 24 * time.Hour, WindowValid: 10 * time.Minute, SampleSize: 5 * time.Minute},
	{Name: "1w", WindowSize: 7 * 24 * time.Hour, WindowValid: 10 * time.Minute, SampleSize: 30 * time.Minute},
	{Name: "1mo", WindowSize: 30 * 24 * time.Hour, WindowValid: 20 * time.Minute, SampleSize: time.Hour},
}

// DefaultScale is the scale of a new State: the past ten minutes, sampled
// every ten seconds.
var DefaultScale = Scales[0]

// LookupScale returns the predefined scale with the given name.
func LookupScale(name string) (Scale, error) {
	for _, s := range Scales {
		if s.Name == name {
			return s, nil
		}
	}
	names := make([]string, len(Scales))
	for i, s := range Scales {
		names[i] = s.Name
	}
	return Scale{}, errors.Newf("unknown scale %q, expected one of %v", name, names)
}

// Window is a span of time.
type Window struct {
	Start, End time.Time
}

// State is the state of the global time window.
type State struct {
	Scale Scale
	// CurrentWindow is nil until a window is set.
	CurrentWindow *Window
	// ScaleChanged is set when the scale changed after the current window
	// was set.
	ScaleChanged bool
}

// NewState returns a state using DefaultScale.
func NewState() *State {
	return &State{Scale: DefaultScale}
}

// QueryTimeInfo returns the time span to request for the current window.
func (s *State) QueryTimeInfo() (tspb.TimeSpan, bool) {
	if s.CurrentWindow == nil {
		return tspb.TimeSpan{}, false
	}
	return tspb.TimeSpan{
		StartNanos:  s.CurrentWindow.Start.UnixNano(),
		EndNanos:    s.CurrentWindow.End.UnixNano(),
		SampleNanos: s.Scale.SampleSize.Nanoseconds(),
	}, true
}

// Action type strings.
const (
	SetWindowType = "cockroachui/timewindow/SET_WINDOW"
	SetScaleType  = "cockroachui/timewindow/SET_SCALE"
)

// SetWindowAction sets the current window.
type SetWindowAction struct {
	Window Window
}

// SetScaleAction changes the scale.
type SetScaleAction struct {
	Scale Scale
}

func (SetWindowAction) Type() string { return SetWindowType }
func (SetScaleAction) Type() string  { return SetScaleType }

var (
	_ store.Action = SetWindowAction{}
	_ store.Action = SetScaleAction{}
)

// Reduce returns the state resulting from applying action to state.
func Reduce(state *State, action store.Action) *State {
	switch a := action.(type) {
	case SetWindowAction:
		next := *state
		w := a.Window
		next.CurrentWindow = &w
		next.ScaleChanged = false
		return &next
	case SetScaleAction:
		next := *state
		next.Scale = a.Scale
		next.ScaleChanged = true
		return &next
	default:
		return state
	}
}

// Decide returns the window to set at time now, if the current one is
// missing, was computed for another scale or expired. Otherwise it returns
// the time at which the current window expires, or the zero time if the
// window has a fixed end and never expires.
func Decide(state *State, now time.Time) (set *Window, expires time.Time) {
	scale := state.Scale
	if state.CurrentWindow == nil || state.ScaleChanged {
		return newWindow(scale, now), time.Time{}
	}
	if scale.WindowEnd != nil {
		return nil, time.Time{}
	}
	expires = state.CurrentWindow.End.Add(scale.WindowValid)
	if !now.Before(expires) {
		return newWindow(scale, now), time.Time{}
	}
	return nil, expires
}

// newWindow returns the window of the given scale ending now, or at the
// scale's fixed end.
func newWindow(scale Scale, now time.Time) *Window {
	end := now
	if scale.WindowEnd != nil {
		end = *scale.WindowEnd
	}
	return &Window{Start: end.Add(-scale.WindowSize), End: end}
}
