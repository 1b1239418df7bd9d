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
	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
	"github.com/cockroachdb/dbconsole/pkg/util/tick"
)

// ComponentRequest is a request issued on behalf of a component.
type ComponentRequest struct {
	ID      ComponentID
	Request *tspb.TimeSeriesQueryRequest
}

// Batcher collects the requests which arrive before the event loop gets
// around to sending them. The first request added to an empty queue
// schedules a drain with the Deferrer; requests added before the drain runs
// join the same batch.
type Batcher struct {
	deferrer tick.Deferrer
	send     func([]ComponentRequest)

	mu struct {
		syncutil.Mutex
		pending []ComponentRequest
	}
}

// NewBatcher returns a batcher handing every drained batch to send.
func NewBatcher(deferrer tick.Deferrer, send func([]ComponentRequest)) *Batcher {
	return &Batcher{deferrer: deferrer, send: send}
}

// Add queues a request.
func (b *Batcher) Add(r ComponentRequest) {
	b.mu.Lock()
	schedule := len(b.mu.pending) == 0
	b.mu.pending = append(b.mu.pending, r)
	b.mu.Unlock()

	// At most one drain is outstanding: it is scheduled by the request which
	// found the queue empty, and it empties the queue.
	if schedule {
		b.deferrer.Defer(b.drain)
	}
}

// Pending returns the number of queued requests.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.mu.pending)
}

func (b *Batcher) drain() {
	b.mu.Lock()
	batch := b.mu.pending
	b.mu.pending = nil
	b.mu.Unlock()
	if len(batch) > 0 {
		b.send(batch)
	}
}
