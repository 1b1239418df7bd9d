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
// Package cliflags describes the command-line flags of dbconsole-metrics.
package cliflags

import "strings"

// FlagInfo describes a command-line flag.
type FlagInfo struct {
	// Name of the flag as used on the command line.
	Name string
	// Shorthand is the short form of the flag, if any.
	Shorthand string
	// EnvVar, if set, names the environment variable which provides the
	// default value of the flag. It may also be set in a .env file.
	EnvVar string
	// Description of the flag, as displayed by --help.
	Description string
}

// Usage returns the description of the flag, mentioning its environment
// variable.
func (f FlagInfo) Usage() string {
	s := strings.TrimSpace(f.Description)
	if f.EnvVar != "" {
		s += "\nEnvironment variable: " + f.EnvVar
	}
	return s
}

// Flags shared by all commands.
var (
	URL = FlagInfo{
		Name:      "url",
		Shorthand: "u",
		EnvVar:    "DBCONSOLE_URL",
		Description: `Base URL of the admin endpoint of a node, e.g. http://localhost:8080.
With --transport=grpc, the host:port of the node's RPC endpoint.`,
	}

	Transport = FlagInfo{
		Name:        "transport",
		EnvVar:      "DBCONSOLE_TRANSPORT",
		Description: `Transport used to send queries, http or grpc.`,
	}

	Timeout = FlagInfo{
		Name:        "timeout",
		EnvVar:      "DBCONSOLE_TIMEOUT",
		Description: `Maximum duration of a single query call.`,
	}

	Dashboards = FlagInfo{
		Name:   "dashboards",
		EnvVar: "DBCONSOLE_DASHBOARDS",
		Description: `YAML file describing the dashboards to display. The built-in
dashboards are used if not set. The file is reloaded when it changes.`,
	}

	Scale = FlagInfo{
		Name:        "scale",
		Description: `Time scale of the displayed window: 10m, 1h, 6h, 1d, 1w or 1mo.`,
	}

	Nodes = FlagInfo{
		Name:        "nodes",
		EnvVar:      "DBCONSOLE_NODES",
		Description: `Comma-separated IDs of the nodes plotted separately by per-node charts.`,
	}

	VModule = FlagInfo{
		Name:        "vmodule",
		Description: `Comma-separated list of pattern=N settings for file-filtered verbose logging.`,
	}

	MetricsAddr = FlagInfo{
		Name:        "metrics-addr",
		Description: `Address on which to serve Prometheus metrics of the query manager.`,
	}

	Once = FlagInfo{
		Name:        "once",
		Description: `Exit after the first time every chart has been displayed.`,
	}

	Width = FlagInfo{
		Name:        "width",
		Description: `Width of the plotted charts, in columns. 0 disables plotting.`,
	}
)

// Flags specific to the demo command.
var (
	DemoNodes = FlagInfo{
		Name:        "demo-nodes",
		Description: `Number of nodes for which synthetic data is generated.`,
	}

	DemoListen = FlagInfo{
		Name:        "listen-addr",
		Description: `Address on which the demo backend listens.`,
	}

	DemoInterval = FlagInfo{
		Name:        "interval",
		Description: `Interval between synthetic data points.`,
	}
)

// Flags specific to the query command.
var (
	Source = FlagInfo{
		Name:        "source",
		Description: `Source (node ID) to query. May be repeated. All sources if not set.`,
	}

	Rate = FlagInfo{
		Name:        "rate",
		Description: `Derivative to apply: none, derivative or non_negative_derivative.`,
	}
)
