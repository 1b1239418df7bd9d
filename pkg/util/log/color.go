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

import "github.com/cockroachdb/ttycolor"

// colorProfile wraps the escape sequences ttycolor detected for stderr.
// A nil colorProfile disables colors.
type colorProfile struct {
	p ttycolor.Profile
}

var stderrColorProfile = func() *colorProfile {
	if ttycolor.StderrProfile == nil {
		return nil
	}
	return &colorProfile{p: ttycolor.StderrProfile}
}()

func (cp *colorProfile) reset() []byte {
	return cp.p[ttycolor.Reset]
}

func severityColor(sev Severity) []byte {
	cp := stderrColorProfile
	switch sev {
	case SeverityInfo:
		return cp.p[ttycolor.Cyan]
	case SeverityWarning:
		return cp.p[ttycolor.Yellow]
	default:
		return cp.p[ttycolor.Red]
	}
}
