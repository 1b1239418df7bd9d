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
	"time"

	"github.com/cockroachdb/dbconsole/pkg/ui/store"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
)

// Manager advances the current window. It sets a new window whenever the
// current one is missing, is stale after a change of scale, or expired, and
// keeps a single timer for the expiration of the current window.
type Manager struct {
	timeSource timeutil.TimeSource
	state      func() *State
	dispatch   func(store.Action)
	recheck    chan struct{}
}

// NewManager returns a manager reading the state with state and applying
// new windows with dispatch. A nil timeSource means the system clock.
func NewManager(
	timeSource timeutil.TimeSource, state func() *State, dispatch func(store.Action),
) *Manager {
	if timeSource == nil {
		timeSource = timeutil.DefaultTimeSource{}
	}
	return &Manager{
		timeSource: timeSource,
		state:      state,
		dispatch:   dispatch,
		recheck:    make(chan struct{}, 1),
	}
}

// Check asks the manager to re-examine the state, which must be done every
// time the scale changes. It never blocks.
func (m *Manager) Check() {
	select {
	case m.recheck <- struct{}{}:
	default:
	}
}

// Run advances the window until ctx is canceled.
func (m *Manager) Run(ctx context.Context) {
	timer := m.timeSource.NewTimer()
	defer timer.Stop()
	for {
		now := m.timeSource.Now()
		set, expires := Decide(m.state(), now)
		if set != nil {
			log.VEventf(ctx, 2, "setting window [%s, %s]", set.Start, set.End)
			m.dispatch(SetWindowAction{Window: *set})
			continue
		}
		var timerCh <-chan time.Time
		if expires.IsZero() {
			timer.Stop()
		} else {
			timer.Reset(expires.Sub(now))
			timerCh = timer.Ch()
		}
		select {
		case <-ctx.Done():
			return
		case <-m.recheck:
		case <-timerCh:
			timer.MarkRead()
		}
	}
}
