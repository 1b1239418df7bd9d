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
// Package tick provides ways to defer work to a later point of the event
// loop, after the caller has returned.
package tick

import (
	"time"

	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
)

// A Deferrer schedules a function to run later, on some other goroutine or
// after an explicit flush. Implementations must run every deferred function
// exactly once.
type Deferrer interface {
	Defer(fn func())
}

// DefaultDelay is the delay used by AfterFunc when none is configured. It is
// short enough to be invisible to users but long enough for all the
// synchronous callers of a render pass to enqueue their work.
const DefaultDelay = time.Millisecond

// AfterFunc runs deferred functions on their own goroutine once Delay has
// elapsed on TimeSource.
type AfterFunc struct {
	Delay      time.Duration
	TimeSource timeutil.TimeSource
}

var _ Deferrer = AfterFunc{}

// Defer implements Deferrer.
func (a AfterFunc) Defer(fn func()) {
	delay := a.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	ts := a.TimeSource
	if ts == nil {
		ts = timeutil.DefaultTimeSource{}
	}
	timer := ts.NewTimer()
	timer.Reset(delay)
	go func() {
		<-timer.Ch()
		timer.MarkRead()
		timer.Stop()
		fn()
	}()
}

// Manual holds deferred functions until Flush is called.
type Manual struct {
	mu struct {
		syncutil.Mutex
		pending []func()
	}
}

var _ Deferrer = (*Manual)(nil)

// Defer implements Deferrer.
func (m *Manual) Defer(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mu.pending = append(m.mu.pending, fn)
}

// Pending returns the number of deferred functions which have not run yet.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mu.pending)
}

// Flush runs every deferred function, including the ones deferred while
// flushing, and returns how many ran.
func (m *Manual) Flush() int {
	var n int
	for {
		m.mu.Lock()
		pending := m.mu.pending
		m.mu.pending = nil
		m.mu.Unlock()
		if len(pending) == 0 {
			return n
		}
		for _, fn := range pending {
			fn()
			n++
		}
	}
}

// Sync runs deferred functions immediately on the calling goroutine.
type Sync struct{}

var _ Deferrer = Sync{}

// Defer implements Deferrer.
func (Sync) Defer(fn func()) { fn() }
