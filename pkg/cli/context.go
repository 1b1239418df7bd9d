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
package cli

import (
	"io"
	"os"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/ts/tsclient"
	"github.com/cockroachdb/dbconsole/pkg/ui/timewindow"
	"github.com/cockroachdb/dbconsole/pkg/util/timeutil"
)

// cliContext holds the parameters of the commands, set by flags.
type cliContext struct {
	url         string
	transport   tsclient.Transport
	timeout     time.Duration
	scale       string
	vmodule     string
	width       int
	dashboards  string
	nodes       []string
	metricsAddr string
	once        bool

	// demo
	demoNodes    int
	demoListen   string
	demoInterval time.Duration

	// query
	sources []string
	rate    string

	out        io.Writer
	timeSource timeutil.TimeSource
}

var cliCtx cliContext

// initCLIDefaults sets the defaults of cliCtx. Flags are bound to its
// fields, so it must be assigned in place.
func initCLIDefaults() {
	cliCtx = cliContext{
		url:          "http://localhost:8080",
		transport:    tsclient.TransportHTTP,
		timeout:      tsclient.DefaultTimeout,
		scale:        timewindow.DefaultScale.Name,
		width:        72,
		demoNodes:    3,
		demoListen:   "localhost:0",
		demoInterval: 10 * time.Second,
		out:          os.Stdout,
		timeSource:   timeutil.DefaultTimeSource{},
	}
}
