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

package timeutil

import (
	"sort"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
)

// TimeSource is used to interact with clocks and timers. Generally exposed for
// testing.
type TimeSource interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	NewTimer() TimerI
}

// DefaultTimeSource is a TimeSource using the system clock.
type DefaultTimeSource struct{}

var _ TimeSource = DefaultTimeSource{}

// Now returns time.Now().
func (DefaultTimeSource) Now() time.Time {
	return time.Now()
}

// Since implements TimeSource interface
func (DefaultTimeSource) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// NewTimer returns a TimerI wrapping a pooled Timer.
func (DefaultTimeSource) NewTimer() TimerI {
	return &Timer{}
}

// ManualTime is a testing implementation of TimeSource. Timers handed out by
// a ManualTime fire only when the clock is moved past their deadline with
// Advance or AdvanceTo.
type ManualTime struct {
	mu struct {
		syncutil.Mutex
		now    time.Time
		timers map[*manualTimer]struct{}
	}
}

var _ TimeSource = (*ManualTime)(nil)

// NewManualTime constructs a new ManualTime whose clock reads initialReading.
func NewManualTime(initialReading time.Time) *ManualTime {
	mt := &ManualTime{}
	mt.mu.now = initialReading
	mt.mu.timers = make(map[*manualTimer]struct{})
	return mt
}

// Now returns the current reading of the manual clock.
func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mu.now
}

// Since returns the time elapsed on the manual clock since t.
func (m *ManualTime) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

// NewTimer returns a timer driven by the manual clock.
func (m *ManualTime) NewTimer() TimerI {
	return &manualTimer{m: m}
}

// Advance moves the clock forward by d, firing every timer whose deadline
// is reached.
func (m *ManualTime) Advance(d time.Duration) {
	m.AdvanceTo(m.Now().Add(d))
}

// AdvanceTo moves the clock to now, firing every timer whose deadline is
// reached. Moving the clock backwards is a no-op.
func (m *ManualTime) AdvanceTo(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !now.After(m.mu.now) {
		return
	}
	m.mu.now = now
	for t := range m.mu.timers {
		if !t.deadline.After(now) {
			m.fireLocked(t)
		}
	}
}

// Timers returns the deadlines of all outstanding timers, in ascending order.
func (m *ManualTime) Timers() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	deadlines := make([]time.Time, 0, len(m.mu.timers))
	for t := range m.mu.timers {
		deadlines = append(deadlines, t.deadline)
	}
	sort.Slice(deadlines, func(i, j int) bool { return deadlines[i].Before(deadlines[j]) })
	return deadlines
}

func (m *ManualTime) fireLocked(t *manualTimer) {
	m.mu.AssertHeld()
	delete(m.mu.timers, t)
	select {
	case t.ch <- m.mu.now:
	default:
	}
}

type manualTimer struct {
	m        *ManualTime
	ch       chan time.Time
	deadline time.Time
}

func (t *manualTimer) Reset(d time.Duration) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	delete(t.m.mu.timers, t)
	// Replace the channel so that a value from a previous deadline is never
	// observed after a Reset.
	t.ch = make(chan time.Time, 1)
	t.deadline = t.m.mu.now.Add(d)
	if d <= 0 {
		t.m.fireLocked(t)
		return
	}
	t.m.mu.timers[t] = struct{}{}
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	_, ok := t.m.mu.timers[t]
	delete(t.m.mu.timers, t)
	t.ch = nil
	return ok
}

func (t *manualTimer) Ch() <-chan time.Time {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return t.ch
}

func (t *manualTimer) MarkRead() {}
