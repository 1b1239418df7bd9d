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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
	"github.com/cockroachdb/errors"
)

// Level specifies a level of verbosity for V logs.
type Level int32

var vmodule struct {
	syncutil.RWMutex
	verbosity Level
	// patterns maps glob patterns over file names without the .go suffix to
	// the verbosity enabled for those files.
	patterns []modulePat
}

type modulePat struct {
	pattern string
	level   Level
}

// SetVerbosity sets the global verbosity level.
func SetVerbosity(level Level) {
	vmodule.Lock()
	defer vmodule.Unlock()
	vmodule.verbosity = level
}

// SetVModule configures per-file verbosity. The syntax is a comma-separated
// list of pattern=N, where pattern is a glob over file names without the
// ".go" suffix, e.g. "dispatcher=2,batch*=1". An empty string clears the
// configuration.
func SetVModule(value string) error {
	var pats []modulePat
	for _, pat := range strings.Split(value, ",") {
		if len(pat) == 0 {
			continue
		}
		patLev := strings.Split(pat, "=")
		if len(patLev) != 2 || len(patLev[0]) == 0 || len(patLev[1]) == 0 {
			return errors.Newf("syntax error: expect comma-separated list of filename=N, got %q", pat)
		}
		v, err := strconv.Atoi(patLev[1])
		if err != nil {
			return errors.Wrapf(err, "invalid verbosity level in %q", pat)
		}
		if v < 0 {
			return errors.Newf("negative verbosity level in %q", pat)
		}
		if _, err := filepath.Match(patLev[0], ""); err != nil {
			return errors.Wrapf(err, "invalid pattern in %q", pat)
		}
		pats = append(pats, modulePat{pattern: patLev[0], level: Level(v)})
	}
	vmodule.Lock()
	defer vmodule.Unlock()
	vmodule.patterns = pats
	return nil
}

// V returns true if the logging verbosity is set to the specified level or
// higher for the calling file.
func V(level Level) bool {
	return VDepth(level, 1)
}

// VDepth reports whether verbosity at the call site is at least the requested
// level. depth counts the frames above the caller of VDepth.
func VDepth(level Level, depth int) bool {
	vmodule.RLock()
	verbosity, pats := vmodule.verbosity, vmodule.patterns
	vmodule.RUnlock()
	if verbosity >= level {
		return true
	}
	if len(pats) == 0 {
		return false
	}
	file, _ := caller(depth + 1)
	file = strings.TrimSuffix(file, ".go")
	for _, p := range pats {
		if ok, _ := filepath.Match(p.pattern, file); ok {
			return p.level >= level
		}
	}
	return false
}
