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

// Package log implements the context-aware logger used throughout the
// console. Every logging call takes a context.Context; log tags attached to
// the context with logtags.AddTag (or through an AmbientContext) are printed
// in brackets in front of the message.
//
// Messages are formatted as redactable strings. Unless redactable output was
// requested with SetRedactable, the redaction markers are stripped before the
// entry is written.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/dbconsole/pkg/util/syncutil"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// Severity identifies the sort of log entry.
type Severity int32

// Severity levels, in increasing order.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("Severity(%d)", int32(s))
	}
}

// letter returns the single character prefix used in log lines.
func (s Severity) letter() byte {
	return s.String()[0]
}

var logging struct {
	syncutil.Mutex
	out        io.Writer
	color      bool
	redactable bool
	now        func() time.Time
	exit       func(int)
}

func init() {
	logging.out = os.Stderr
	logging.color = stderrColorProfile != nil
	logging.now = time.Now
	logging.exit = os.Exit
}

// SetOutput redirects all log output to w and returns a function restoring
// the previous destination. Output written to anything other than stderr is
// never colorized.
func SetOutput(w io.Writer) (restore func()) {
	logging.Lock()
	defer logging.Unlock()
	prevOut, prevColor := logging.out, logging.color
	logging.out = w
	logging.color = w == io.Writer(os.Stderr) && stderrColorProfile != nil
	return func() {
		logging.Lock()
		defer logging.Unlock()
		logging.out, logging.color = prevOut, prevColor
	}
}

// SetRedactable controls whether redaction markers are kept in the output.
func SetRedactable(redactable bool) {
	logging.Lock()
	defer logging.Unlock()
	logging.redactable = redactable
}

// SetExitFunc overrides the function called by Fatalf after logging and
// returns a function restoring the previous one. Used in tests.
func SetExitFunc(f func(int)) (restore func()) {
	logging.Lock()
	defer logging.Unlock()
	prev := logging.exit
	logging.exit = f
	return func() {
		logging.Lock()
		defer logging.Unlock()
		logging.exit = prev
	}
}

// Infof logs to the INFO log.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityInfo, format, args)
}

// Info logs a message without formatting arguments to the INFO log.
func Info(ctx context.Context, msg string) {
	logDepth(ctx, 1, SeverityInfo, "%s", []interface{}{redact.SafeString(msg)})
}

// Warningf logs to the WARNING log.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityWarning, format, args)
}

// Errorf logs to the ERROR log.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityError, format, args)
}

// Fatalf logs to the FATAL log and then exits the process with status 255.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityFatal, format, args)
	logging.Lock()
	exit := logging.exit
	logging.Unlock()
	exit(255)
}

// VEventf logs to the INFO log if the verbosity of the calling file is at
// least level.
func VEventf(ctx context.Context, level Level, format string, args ...interface{}) {
	if VDepth(level, 1) {
		logDepth(ctx, 1, SeverityInfo, format, args)
	}
}

// InfofDepth logs to the INFO log, attributing the entry to the caller depth
// frames above the caller of InfofDepth.
func InfofDepth(ctx context.Context, depth int, format string, args ...interface{}) {
	logDepth(ctx, depth+1, SeverityInfo, format, args)
}

func logDepth(
	ctx context.Context, depth int, sev Severity, format string, args []interface{},
) {
	file, line := caller(depth + 1)
	msg := redact.Sprintf(format, args...)

	logging.Lock()
	defer logging.Unlock()
	if logging.out == nil {
		return
	}
	var buf strings.Builder
	formatHeader(&buf, sev, logging.now(), file, line, logging.color)
	formatTags(ctx, &buf)
	if logging.redactable {
		buf.WriteString(string(msg))
	} else {
		buf.WriteString(msg.StripMarkers())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		buf.WriteByte('\n')
	}
	_, _ = io.WriteString(logging.out, buf.String())
}

func caller(depth int) (file string, line int) {
	_, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		return "???", 1
	}
	return filepath.Base(file), line
}

// formatHeader writes the entry prefix, for example:
//
//	I261019 12:00:00.000000 dispatcher.go:88  [tags] message
func formatHeader(
	buf *strings.Builder, sev Severity, now time.Time, file string, line int, color bool,
) {
	if color {
		buf.Write(severityColor(sev))
	}
	buf.WriteByte(sev.letter())
	buf.WriteString(now.UTC().Format("060102 15:04:05.000000"))
	if color {
		buf.Write(stderrColorProfile.reset())
	}
	fmt.Fprintf(buf, " %s:%d  ", file, line)
}

// formatTags writes the log tags carried by ctx, if any, in brackets.
func formatTags(ctx context.Context, buf *strings.Builder) {
	tags := logtags.FromContext(ctx)
	if tags == nil {
		return
	}
	buf.WriteByte('[')
	for i, t := range tags.Get() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(t.Key())
		if v := t.Value(); v != nil {
			// Single-letter keys are printed without separator, as in n1.
			if len(t.Key()) > 1 {
				buf.WriteByte('=')
			}
			buf.WriteString(t.ValueStr())
		}
	}
	buf.WriteString("] ")
}
