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
	"io/fs"
	"os"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/cli/cliflags"
	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envFile is loaded, if present, before the flags' environment variables
// are consulted. Variables already set in the environment take precedence.
var envFile = ".env"

// envFlags are the flags whose default comes from an environment variable,
// by name.
var envFlags = map[string]cliflags.FlagInfo{}

// AddPersistentPreRunE add 'fn' as a persistent pre-run function to 'cmd'.
// If the command has an existing pre-run function, it is saved and will be called
// at the beginning of 'fn'.
func AddPersistentPreRunE(cmd *cobra.Command, fn func(*cobra.Command, []string) error) {
	wrapped := cmd.PersistentPreRunE

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if wrapped != nil {
			if err := wrapped(cmd, args); err != nil {
				return err
			}
		}
		return fn(cmd, args)
	}
}

func registerEnv(flagInfo cliflags.FlagInfo) {
	if flagInfo.EnvVar != "" {
		envFlags[flagInfo.Name] = flagInfo
	}
}

// StringFlag creates a string flag and registers it with the FlagSet.
func StringFlag(f *pflag.FlagSet, valPtr *string, flagInfo cliflags.FlagInfo) {
	f.StringVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(flagInfo)
}

// StringSliceFlag creates a string slice flag and registers it with the
// FlagSet.
func StringSliceFlag(f *pflag.FlagSet, valPtr *[]string, flagInfo cliflags.FlagInfo) {
	f.StringSliceVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(flagInfo)
}

// IntFlag creates an int flag and registers it with the FlagSet.
func IntFlag(f *pflag.FlagSet, valPtr *int, flagInfo cliflags.FlagInfo) {
	f.IntVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(flagInfo)
}

// BoolFlag creates a bool flag and registers it with the FlagSet.
func BoolFlag(f *pflag.FlagSet, valPtr *bool, flagInfo cliflags.FlagInfo) {
	f.BoolVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(flagInfo)
}

// DurationFlag creates a duration flag and registers it with the FlagSet.
func DurationFlag(f *pflag.FlagSet, valPtr *time.Duration, flagInfo cliflags.FlagInfo) {
	f.DurationVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
	registerEnv(flagInfo)
}

// VarFlag creates a custom-variable flag and registers it with the FlagSet.
func VarFlag(f *pflag.FlagSet, value pflag.Value, flagInfo cliflags.FlagInfo) {
	f.VarP(value, flagInfo.Name, flagInfo.Shorthand, flagInfo.Usage())
	registerEnv(flagInfo)
}

// loadEnvFile loads envFile into the environment, if it exists.
func loadEnvFile() error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "loading %s", envFile)
	}
	return nil
}

// setFlagsFromEnv sets the flags of cmd which were not given on the command
// line from their environment variable.
func setFlagsFromEnv(cmd *cobra.Command) error {
	f := cmd.Flags()
	for name, flagInfo := range envFlags {
		flag := f.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		value, ok := os.LookupEnv(flagInfo.EnvVar)
		if !ok {
			continue
		}
		if err := f.Set(name, value); err != nil {
			return markFlagError(errors.Wrapf(err, "%s", flagInfo.EnvVar))
		}
	}
	return nil
}

func init() {
	initCLIDefaults()

	pf := metricsCmd.PersistentFlags()
	StringFlag(pf, &cliCtx.url, cliflags.URL)
	VarFlag(pf, &cliCtx.transport, cliflags.Transport)
	DurationFlag(pf, &cliCtx.timeout, cliflags.Timeout)
	StringFlag(pf, &cliCtx.scale, cliflags.Scale)
	StringFlag(pf, &cliCtx.vmodule, cliflags.VModule)
	IntFlag(pf, &cliCtx.width, cliflags.Width)

	for _, cmd := range []*cobra.Command{watchCmd, demoCmd} {
		f := cmd.Flags()
		StringFlag(f, &cliCtx.dashboards, cliflags.Dashboards)
		StringSliceFlag(f, &cliCtx.nodes, cliflags.Nodes)
		StringFlag(f, &cliCtx.metricsAddr, cliflags.MetricsAddr)
		BoolFlag(f, &cliCtx.once, cliflags.Once)
	}

	{
		f := demoCmd.Flags()
		IntFlag(f, &cliCtx.demoNodes, cliflags.DemoNodes)
		StringFlag(f, &cliCtx.demoListen, cliflags.DemoListen)
		DurationFlag(f, &cliCtx.demoInterval, cliflags.DemoInterval)
	}

	{
		f := queryCmd.Flags()
		StringSliceFlag(f, &cliCtx.sources, cliflags.Source)
		StringFlag(f, &cliCtx.rate, cliflags.Rate)
	}

	AddPersistentPreRunE(metricsCmd, func(cmd *cobra.Command, _ []string) error {
		if err := loadEnvFile(); err != nil {
			return err
		}
		if err := setFlagsFromEnv(cmd); err != nil {
			return err
		}
		if cliCtx.vmodule != "" {
			if err := log.SetVModule(cliCtx.vmodule); err != nil {
				return markFlagError(errors.Wrap(err, "--vmodule"))
			}
		}
		return nil
	})
}
