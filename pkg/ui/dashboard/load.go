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
	"os"
	"path/filepath"

	"github.com/cockroachdb/dbconsole/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v2"
)

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, errors.Wrap(err, "parsing dashboards")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid dashboards")
	}
	return &c, nil
}

// String returns the YAML representation of the catalog.
func (c *Catalog) String() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(b)
}

// Load reads a catalog from path. An empty path returns the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading dashboards")
	}
	c, err := Parse(data)
	return c, errors.Wrapf(err, "%s", path)
}

// Watch calls onChange with the catalog at path every time the file is
// written, until ctx is canceled. Files which fail to load are logged and
// ignored. The directory is watched rather than the file so that editors
// replacing the file are noticed.
func Watch(ctx context.Context, path string, onChange func(*Catalog)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "watching dashboards")
	}
	defer func() { _ = w.Close() }()
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watching %s", path)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			c, err := Load(path)
			if err != nil {
				log.Warningf(ctx, "ignoring dashboards change: %v", err)
				continue
			}
			log.VEventf(ctx, 1, "reloaded %d dashboards from %s", len(c.Dashboards), path)
			onChange(c)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warningf(ctx, "watching %s: %v", path, err)
		}
	}
}
