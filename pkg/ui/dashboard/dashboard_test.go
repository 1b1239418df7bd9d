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
package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/dbconsole/pkg/ts/tspb"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	datadriven.RunTest(t, "testdata/parse", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "parse":
			c, err := Parse([]byte(d.Input))
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			var nodes []string
			if d.HasArg("nodes") {
				d.ScanArgs(t, "nodes", &nodes)
			}
			providers, err := c.Providers(nodes)
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			var buf strings.Builder
			for _, p := range providers {
				req := p.Request(tspb.TimeSpan{EndNanos: 1, SampleNanos: 1})
				fmt.Fprintf(&buf, "%s\n", p.ID())
				for _, q := range req.Queries {
					fmt.Fprintf(&buf, "  %s %s/%s/%s sources=[%s]\n", q.Name,
						q.GetDownsampler(), q.GetSourceAggregator(), q.GetDerivative(),
						strings.Join(q.Sources, ","))
				}
			}
			return buf.String()
		default:
			d.Fatalf(t, "unknown command %s", d.Cmd)
			return ""
		}
	})
}

func TestParseStrict(t *testing.T) {
	_, err := Parse([]byte(`
dashboards:
- title: a
  charts:
  - title: b
    metrics: [m]
    color: red
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing dashboards")
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	providers, err := c.Providers([]string{"1", "2"})
	require.NoError(t, err)
	require.Len(t, providers, 6)

	// The default catalog round trips through YAML.
	parsed, err := Parse([]byte(c.String()))
	require.NoError(t, err)
	require.Equal(t, c, parsed)

	d, ch, ok := c.Chart(providers[0].ID())
	require.True(t, ok)
	require.Equal(t, "Overview", d.Title)
	require.Equal(t, "SQL Statements", ch.Title)
	_, _, ok = c.Chart("missing/chart")
	require.False(t, ok)

	// Modifying the returned catalog does not affect later ones.
	c.Dashboards[0].Charts[0].Title = "changed"
	require.Equal(t, "SQL Statements", Default().Dashboards[0].Charts[0].Title)
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), c)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "dashboards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboards:\n- title: a\n  charts: []\n"), 0644))
	c, err = Load(path)
	require.NoError(t, err)
	require.Len(t, c.Dashboards, 1)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboards: []\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Catalog, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Catalog) {
			select {
			case changes <- c:
			default:
			}
		})
	}()

	// The watcher may not be registered yet: rewrite the file until a change
	// is observed.
	valid := []byte("dashboards:\n- title: reloaded\n  charts: []\n")
	var got *Catalog
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, valid, 0644); err != nil {
			return false
		}
		select {
		case got = <-changes:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 10*time.Second, time.Millisecond)
	require.Equal(t, "reloaded", got.Dashboards[0].Title)

	cancel()
	require.NoError(t, <-done)
}
