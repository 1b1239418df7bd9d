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
package exit

// Code is a process exit code.
type Code struct {
	code int
}

// Int returns the code as an integer.
func (c Code) Int() int { return c.code }

// Codes that are common to all commands follow.

// Success (0) represents a normal process termination.
func Success() Code { return Code{0} }

// UnspecifiedError (1) indicates the process has terminated with an
// error condition. The specific cause of the error can be found in
// the logging output.
func UnspecifiedError() Code { return Code{1} }

// Interrupted (3) indicates the process was interrupted with
// Ctrl+C / SIGINT.
func Interrupted() Code { return Code{3} }

// CommandLineFlagError (4) indicates there was an error in the
// command-line parameters.
func CommandLineFlagError() Code { return Code{4} }

// Command-specific exit codes are allocated down from 125.

// QueryFailed indicates that at least one chart could not be retrieved.
func QueryFailed() Code { return Code{125} }
