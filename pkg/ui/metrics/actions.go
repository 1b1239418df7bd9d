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
	"github.com/cockroachdb/dbconsole/pkg/ui/store"
)

// Action type strings.
const (
	RequestType       = "cockroachui/metrics/REQUEST"
	BeginType         = "cockroachui/metrics/BEGIN"
	ReceiveType       = "cockroachui/metrics/RECEIVE"
	ErrorType         = "cockroachui/metrics/ERROR"
	FetchType         = "cockroachui/metrics/FETCH"
	FetchCompleteType = "cockroachui/metrics/FETCH_COMPLETE"
)

// RequestAction asks for the data of a component to be fetched. It is
// handled by the Manager and leaves the state unchanged.
type RequestAction struct {
	ID      ComponentID
	Request *tspb.TimeSeriesQueryRequest
}

// BeginAction records that a request for a component was issued.
type BeginAction struct {
	ID      ComponentID
	Request *tspb.TimeSeriesQueryRequest
}

// ReceiveAction delivers the response to a request of a component.
type ReceiveAction struct {
	ID       ComponentID
	Request  *tspb.TimeSeriesQueryRequest
	Response *tspb.TimeSeriesQueryResponse
}

// ErrorAction records that the latest request of a component failed.
type ErrorAction struct {
	ID  ComponentID
	Err error
}

// FetchAction records that a batch of requests was sent.
type FetchAction struct{}

// FetchCompleteAction records that every call of a batch settled.
type FetchCompleteAction struct{}

func (RequestAction) Type() string       { return RequestType }
func (BeginAction) Type() string         { return BeginType }
func (ReceiveAction) Type() string       { return ReceiveType }
func (ErrorAction) Type() string         { return ErrorType }
func (FetchAction) Type() string         { return FetchType }
func (FetchCompleteAction) Type() string { return FetchCompleteType }

// queryAction is implemented by the actions which change the state of a
// single component.
type queryAction interface {
	store.Action
	componentID() ComponentID
}

func (a BeginAction) componentID() ComponentID   { return a.ID }
func (a ReceiveAction) componentID() ComponentID { return a.ID }
func (a ErrorAction) componentID() ComponentID   { return a.ID }

var (
	_ store.Action = RequestAction{}
	_ queryAction  = BeginAction{}
	_ queryAction  = ReceiveAction{}
	_ queryAction  = ErrorAction{}
	_ store.Action = FetchAction{}
	_ store.Action = FetchCompleteAction{}
)
