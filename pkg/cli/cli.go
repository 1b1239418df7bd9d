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
// Package cli implements the dbconsole-metrics command, which displays the
// charts of the DB console in a terminal.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/dbconsole/pkg/cli/exit"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// Proxy to allow overrides in tests.
var osStderr = os.Stderr

var metricsCmd = &cobra.Command{
	Use:   "dbconsole-metrics [command] (flags)",
	Short: "display DB console metrics in a terminal",
	Long: `
Query the time series of a cluster the way the DB console does: the requests
of every chart issued at the same time are batched into a single call per
time span.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.EnableCommandSorting = false

	metricsCmd.AddCommand(
		queryCmd,
		watchCmd,
		demoCmd,
	)
	metricsCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return markFlagError(err)
	})
}

var (
	errFlag        = errors.New("invalid flag")
	errQueryFailed = errors.New("query failed")
)

func markFlagError(err error) error {
	return errors.Mark(err, errFlag)
}

// Main is the entry point of the dbconsole-metrics command.
func Main() {
	if err := Run(os.Args[1:]); err != nil {
		fmt.Fprintf(osStderr, "ERROR: %v\n", err)
		os.Exit(errorCode(err).Int())
	}
	os.Exit(exit.Success().Int())
}

// Run runs the command with the given arguments.
func Run(args []string) error {
	metricsCmd.SetArgs(args)
	return metricsCmd.Execute()
}

func errorCode(err error) exit.Code {
	switch {
	case err == nil:
		return exit.Success()
	case errors.Is(err, errFlag):
		return exit.CommandLineFlagError()
	case errors.Is(err, context.Canceled):
		return exit.Interrupted()
	case errors.Is(err, errQueryFailed):
		return exit.QueryFailed()
	default:
		return exit.UnspecifiedError()
	}
}
