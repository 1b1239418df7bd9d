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
// Package store holds application state as a single value which is only
// replaced by applying actions through a reducer.
package store

import "github.com/cockroachdb/dbconsole/pkg/util/syncutil"

// Action describes a state transition. Type returns a string unique to the
// kind of action.
type Action interface {
	Type() string
}

// Reducer computes the state resulting from applying action to state. A
// reducer must not modify its input; when action does not apply, it returns
// state itself.
type Reducer[S comparable] func(state S, action Action) S

// Store serializes the application of actions to a state value.
type Store[S comparable] struct {
	reducer Reducer[S]

	mu struct {
		syncutil.Mutex
		state     S
		nextSubID int
		subs      map[int]func(S)
	}
}

// New returns a store holding initial.
func New[S comparable](reducer Reducer[S], initial S) *Store[S] {
	s := &Store[S]{reducer: reducer}
	s.mu.state = initial
	s.mu.subs = make(map[int]func(S))
	return s
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.state
}

// Dispatch applies action to the current state. Subscribers are notified
// if the reducer returned a different state. They are called without the
// store's lock held and may dispatch further actions.
func (s *Store[S]) Dispatch(action Action) {
	s.mu.Lock()
	prev := s.mu.state
	next := s.reducer(prev, action)
	s.mu.state = next
	subs := make([]func(S), 0, len(s.mu.subs))
	if next != prev {
		for _, fn := range s.mu.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// Subscribe registers fn to be called with every new state. The returned
// function unregisters it.
func (s *Store[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.mu.nextSubID
	s.mu.nextSubID++
	s.mu.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.mu.subs, id)
	}
}
