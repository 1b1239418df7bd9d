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
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func TestLogFormat(t *testing.T) {
	buf := captureLogs(t)
	ctx := logtags.AddTag(context.Background(), "n", 1)
	ctx = logtags.AddTag(ctx, "batch", 7)

	Infof(ctx, "hello %s", "world")
	Warningf(context.Background(), "careful")
	Errorf(ctx, "failed: %d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "I"), lines[0])
	require.Contains(t, lines[0], "log_test.go:")
	require.Contains(t, lines[0], "[n1,batch=7] hello world")
	require.True(t, strings.HasPrefix(lines[1], "W"), lines[1])
	require.True(t, strings.HasSuffix(lines[1], "  careful"), lines[1])
	require.True(t, strings.HasPrefix(lines[2], "E"), lines[2])
	require.Contains(t, lines[2], "failed: 3")
}

func TestLogRedactable(t *testing.T) {
	buf := captureLogs(t)
	ctx := context.Background()

	Infof(ctx, "user %s", "secret")
	require.Contains(t, buf.String(), "user secret")
	require.NotContains(t, buf.String(), string(redact.StartMarker()))

	buf.Reset()
	SetRedactable(true)
	defer SetRedactable(false)
	Infof(ctx, "user %s", "secret")
	require.Contains(t, buf.String(), string(redact.StartMarker())+"secret"+string(redact.EndMarker()))
}

func TestVModule(t *testing.T) {
	buf := captureLogs(t)
	ctx := context.Background()
	defer func() { require.NoError(t, SetVModule("")) }()

	require.False(t, V(1))
	VEventf(ctx, 1, "hidden")
	require.Empty(t, buf.String())

	require.NoError(t, SetVModule("log_test=2"))
	require.True(t, V(2))
	require.False(t, V(3))
	VEventf(ctx, 2, "shown")
	require.Contains(t, buf.String(), "shown")

	require.NoError(t, SetVModule("other*=5"))
	require.False(t, V(1))

	for _, bad := range []string{"foo", "foo=", "=1", "foo=x", "foo=-1", "[=1"} {
		require.Error(t, SetVModule(bad), bad)
	}
}

func TestVerbosity(t *testing.T) {
	SetVerbosity(1)
	defer SetVerbosity(0)
	require.True(t, V(1))
	require.False(t, V(2))
}

func TestAmbientContext(t *testing.T) {
	buf := captureLogs(t)
	var ac AmbientContext
	require.Equal(t, context.Background(), ac.AnnotateCtx(context.Background()))

	ac.AddLogTag("metrics", nil)
	ac.AddLogTag("id", "graph1")
	Infof(ac.AnnotateCtx(context.Background()), "annotated")
	require.Contains(t, buf.String(), "[metrics,id=graph1] annotated")
}

func TestFatalf(t *testing.T) {
	buf := captureLogs(t)
	var code int
	defer SetExitFunc(func(c int) { code = c })()
	Fatalf(context.Background(), "fatal %d", 1)
	require.Equal(t, 255, code)
	require.True(t, strings.HasPrefix(buf.String(), "F"))
}

func TestEveryN(t *testing.T) {
	e := Every(time.Minute)
	now := time.Now()
	require.True(t, e.shouldProcess(now))
	require.False(t, e.shouldProcess(now.Add(time.Second)))
	require.True(t, e.shouldProcess(now.Add(time.Minute)))

	var zero EveryN
	require.True(t, zero.ShouldLog())
	require.True(t, zero.ShouldLog())
}
