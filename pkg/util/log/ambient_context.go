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

package log

import (
	"context"

	"github.com/cockroachdb/logtags"
)

// AmbientContext is a helper type used to "annotate" context.Contexts with
// log tags. It is intended to be embedded into various components that need
// to perform work on contexts they did not receive from a caller, such as the
// background work started by a deferred batch.
//
// The zero value is usable and adds no tags.
type AmbientContext struct {
	tags *logtags.Buffer
}

// AddLogTag adds a tag to the ambient context.
func (ac *AmbientContext) AddLogTag(name string, value interface{}) {
	ac.tags = ac.tags.Add(name, value)
}

// AnnotateCtx annotates the given context with the ambient log tags. Tags
// already present on ctx take precedence.
func (ac *AmbientContext) AnnotateCtx(ctx context.Context) context.Context {
	if ac.tags == nil {
		return ctx
	}
	return logtags.AddTags(ctx, ac.tags)
}
