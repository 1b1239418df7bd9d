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
package tspb

import (
	"fmt"
	"time"
)

// TimeSpan is the time range covered by a query request, along with the
// requested sample period. All values are nanoseconds since the unix epoch.
type TimeSpan struct {
	StartNanos  int64
	EndNanos    int64
	SampleNanos int64
}

// BatchKey identifies the requests that can share a single call to the
// server. Two requests are batchable iff their start and end timestamps are
// equal; the sample period is taken from the first request of a batch.
type BatchKey struct {
	StartNanos int64
	EndNanos   int64
}

// BatchKey returns the key under which requests covering ts are batched.
func (ts TimeSpan) BatchKey() BatchKey {
	return BatchKey{StartNanos: ts.StartNanos, EndNanos: ts.EndNanos}
}

func (k BatchKey) String() string {
	return fmt.Sprintf("%d:%d", k.StartNanos, k.EndNanos)
}

func (ts TimeSpan) String() string {
	return fmt.Sprintf("[%s,%s] sample=%s",
		time.Unix(0, ts.StartNanos).UTC().Format(time.RFC3339Nano),
		time.Unix(0, ts.EndNanos).UTC().Format(time.RFC3339Nano),
		time.Duration(ts.SampleNanos))
}

// TimeSpan returns the time span covered by the request.
func (m *TimeSeriesQueryRequest) TimeSpan() TimeSpan {
	return TimeSpan{StartNanos: m.StartNanos, EndNanos: m.EndNanos, SampleNanos: m.SampleNanos}
}

// Equal returns whether q and o describe the same time series query. Nil
// and empty source lists are equal; unset aggregation options are only
// equal to unset options.
func (q *Query) Equal(o *Query) bool {
	if q == nil || o == nil {
		return q == o
	}
	if q.Name != o.Name ||
		!enumPtrEqual(q.Downsampler, o.Downsampler) ||
		!enumPtrEqual(q.SourceAggregator, o.SourceAggregator) ||
		!enumPtrEqual(q.Derivative, o.Derivative) ||
		len(q.Sources) != len(o.Sources) {
		return false
	}
	for i := range q.Sources {
		if q.Sources[i] != o.Sources[i] {
			return false
		}
	}
	return true
}

func enumPtrEqual[T ~int32](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// QueriesEqual returns whether the two lists contain equal queries in the
// same order.
func QueriesEqual(a, b []Query) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(&b[i]) {
			return false
		}
	}
	return true
}
