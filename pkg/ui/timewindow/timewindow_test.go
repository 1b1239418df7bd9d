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
package timewindow

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
	"github.com/stretchr/testify/require"
)

type otherAction struct{}

func (otherAction) Type() string { return "other" }

func TestReduce(t *testing.T) {
	s0 := NewState()
	require.Same(t, s0, Reduce(s0, otherAction{}))

	hour, err := LookupScale("1h")
	require.NoError(t, err)
	s1 := Reduce(s0, SetScaleAction{Scale: hour})
	require.True(t, s1.ScaleChanged)
	require.Equal(t, hour, s1.Scale)
	require.Equal(t, DefaultScale, s0.Scale)

	w := Window{Start: time.Unix(0, 0), End: time.Unix(3600, 0)}
	s2 := Reduce(s1, SetWindowAction{Window: w})
	require.False(t, s2.ScaleChanged)
	require.Equal(t, w, *s2.CurrentWindow)
	require.Nil(t, s1.CurrentWindow)

	ti, ok := s2.QueryTimeInfo()
	require.True(t, ok)
	require.Equal(t, tspb.TimeSpan{
		StartNanos:  0,
		EndNanos:    3600 * time.Second.Nanoseconds(),
		SampleNanos: (30 * time.Second).Nanoseconds(),
	}, ti)
	_, ok = s0.QueryTimeInfo()
	require.False(t, ok)

	_, err = LookupScale("1y")
	require.ErrorContains(t, err, "unknown scale")
}

func TestDecide(t *testing.T) {
	now := time.Unix(1000, 0)
	fixedEnd := time.Unix(500, 0)
	fixed := DefaultScale
	fixed.WindowEnd = &fixedEnd
	current := &Window{Start: now.Add(-10 * time.Minute), End: now}

	testCases := []struct {
		name       string
		state      State
		now        time.Time
		expSet     *Window
		expExpires time.Time
	}{
		{
			name:   "no window",
			state:  State{Scale: DefaultScale},
			now:    now,
			expSet: &Window{Start: now.Add(-10 * time.Minute), End: now},
		},
		{
			name:   "scale changed",
			state:  State{Scale: DefaultScale, CurrentWindow: current, ScaleChanged: true},
			now:    now.Add(time.Second),
			expSet: &Window{Start: now.Add(time.Second - 10*time.Minute), End: now.Add(time.Second)},
		},
		{
			name:   "fixed end without window",
			state:  State{Scale: fixed},
			now:    now,
			expSet: &Window{Start: fixedEnd.Add(-10 * time.Minute), End: fixedEnd},
		},
		{
			name:  "fixed end never expires",
			state: State{Scale: fixed, CurrentWindow: current},
			now:   now.Add(time.Hour),
		},
		{
			name:       "valid",
			state:      State{Scale: DefaultScale, CurrentWindow: current},
			now:        now.Add(5 * time.Second),
			expExpires: now.Add(10 * time.Second),
		},
		{
			name:   "expired",
			state:  State{Scale: DefaultScale, CurrentWindow: current},
			now:    now.Add(10 * time.Second),
			expSet: &Window{Start: now.Add(10*time.Second - 10*time.Minute), End: now.Add(10 * time.Second)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, expires := Decide(&tc.state, tc.now)
			require.Equal(t, tc.expSet, set)
			require.Equal(t, tc.expExpires, expires)
		})
	}
}

func TestManager(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t0 := time.Unix(1_700_000_000, 0)
	mt := timeutil.NewManualTime(t0)
	s := store.New(Reduce, NewState())
	m := NewManager(mt, s.State, s.Dispatch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitFor := func(end time.Time, size time.Duration, timers ...time.Time) {
		t.Helper()
		require.Eventually(t, func() bool {
			w := s.State().CurrentWindow
			if w == nil || !w.End.Equal(end) || w.End.Sub(w.Start) != size {
				return false
			}
			got := mt.Timers()
			if len(got) != len(timers) {
				return false
			}
			for i := range got {
				if !got[i].Equal(timers[i]) {
					return false
				}
			}
			return true
		}, 10*time.Second, time.Millisecond)
	}

	// A window is set immediately, and a single timer waits for it to expire.
	waitFor(t0, 10*time.Minute, t0.Add(10*time.Second))

	mt.Advance(5 * time.Second)
	waitFor(t0, 10*time.Minute, t0.Add(10*time.Second))

	mt.Advance(5 * time.Second)
	t1 := t0.Add(10 * time.Second)
	waitFor(t1, 10*time.Minute, t1.Add(10*time.Second))

	// Changing the scale resets the window right away.
	hour, err := LookupScale("1h")
	require.NoError(t, err)
	mt.Advance(time.Second)
	t2 := t1.Add(time.Second)
	s.Dispatch(SetScaleAction{Scale: hour})
	m.Check()
	waitFor(t2, time.Hour, t2.Add(time.Minute))

	// A window with a fixed end does not expire.
	fixed := hour
	fixedEnd := t0.Add(-time.Hour)
	fixed.WindowEnd = &fixedEnd
	s.Dispatch(SetScaleAction{Scale: fixed})
	m.Check()
	waitFor(fixedEnd, time.Hour)
	mt.Advance(24 * time.Hour)
	waitFor(fixedEnd, time.Hour)
}
