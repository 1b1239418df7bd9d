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
	"sync"
	"time"
)

var timeTimerPool sync.Pool

// TimerI is an interface wrapping Timer, so that a ManualTime can hand out
// timers which only fire when the manual clock is advanced.
type TimerI interface {
	// Reset changes the timer to expire after duration d.
	Reset(d time.Duration)
	// Stop prevents the timer from firing. It returns true if the call stops
	// the timer, false if the timer has already expired or been stopped.
	Stop() bool
	// Ch returns the channel on which the expiration time is delivered. It
	// returns nil if the timer is not running.
	Ch() <-chan time.Time
	// MarkRead must be called after a value has been received from Ch.
	MarkRead()
}

// The Timer type represents a single event. When the Timer expires,
// the current time will be sent on Timer.C.
//
// This timer implementation is an abstraction around the standard library's
// time.Timer that uses a pool of stopped timers to reduce allocations.
//
// Note that unlike the standard library's Timer type, this Timer will
// not begin counting down until Reset is called for the first time, as
// there is no constructor function. The zero value for Timer is ready
// to use.
type Timer struct {
	timer *time.Timer
	// C is a local "copy" of timer.C that can be used in a select case before
	// the timer has been initialized (via Reset).
	C    <-chan time.Time
	Read bool
}

var _ TimerI = (*Timer)(nil)

// Reset changes the timer to expire after duration d. If a value was sent on
// C and not yet received (Read is false), it is drained first so that the
// next receive observes the new deadline.
func (t *Timer) Reset(d time.Duration) {
	if t.timer == nil {
		switch timer := timeTimerPool.Get(); timer {
		case nil:
			t.timer = time.NewTimer(d)
		default:
			t.timer = timer.(*time.Timer)
			t.timer.Reset(d)
		}
		t.C = t.timer.C
		return
	}
	if !t.timer.Stop() && !t.Read {
		select {
		case <-t.C:
		default:
		}
	}
	t.timer.Reset(d)
	t.Read = false
}

// Stop prevents the Timer from firing. It returns true if the call stops
// the timer, false if the timer has already expired, been stopped previously,
// or had never been initialized with a call to Timer.Reset. Stop does not
// close the channel, to prevent a read from succeeding incorrectly.
func (t *Timer) Stop() bool {
	var res bool
	if t.timer != nil {
		res = t.timer.Stop()
		if res {
			// Only a stopped timer which did not fire can go back in the pool;
			// otherwise its channel may still hold a stale value.
			timeTimerPool.Put(t.timer)
		}
	}
	*t = Timer{}
	return res
}

// Ch implements TimerI.
func (t *Timer) Ch() <-chan time.Time {
	return t.C
}

// MarkRead implements TimerI.
func (t *Timer) MarkRead() {
	t.Read = true
}
