// Copyright 2024 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/webapp-tools/env-precheck/pkg/database"
	"github.com/webapp-tools/env-precheck/pkg/manifest"
)

var errNoProbe = errors.New("no database probe configured")

// dirState is the filesystem state of one directory the plan checks.
type dirState struct {
	// rel is the path shown in messages, relative to the project root.
	rel      string
	exists   bool
	writable bool
}

// prefetch runs the independent probes concurrently. It returns only once
// every probe is done so the steps see a complete, fixed snapshot.
func (a *audit) prefetch(ctx context.Context) {
	var g errgroup.Group

	g.Go(func() error {
		a.probeDatabase(ctx)
		return nil
	})

	varDir := a.layout.VarDir
	targets := []struct {
		dst   *dirState
		rel   string
		write bool
	}{
		{&a.vendor, a.layout.VendorDir, false},
		{&a.cache, filepath.Join(varDir, "cache", a.opts.Env), true},
		{&a.log, filepath.Join(varDir, "log"), true},
	}
	for _, t := range targets {
		g.Go(func() error {
			*t.dst = statDir(a.root, t.rel, t.write)
			return nil
		})
	}

	_ = g.Wait()
}

func (a *audit) probeDatabase(ctx context.Context) {
	u, err := database.ParseURL(a.opts.DatabaseURL)
	if err != nil {
		a.dbURLErr = err
		return
	}
	a.dbURL = u
	if a.probe == nil {
		a.db = database.Result{Err: errNoProbe}
		return
	}
	a.db = a.probe.Probe(ctx, u)
	if a.db.Err != nil {
		a.logger.Warn("database probe failed", "url", u.Redacted(), "error", a.db.Err)
	}
}

func statDir(root, rel string, checkWrite bool) dirState {
	state := dirState{rel: filepath.ToSlash(rel)}
	path := manifest.Resolve(root, rel)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return state
	}
	state.exists = true
	if checkWrite {
		state.writable = isWritable(path)
	}
	return state
}

// isWritable creates and removes a probe file in dir.
func isWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".precheck-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
