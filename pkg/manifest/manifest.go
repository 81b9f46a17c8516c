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

// Package manifest reads the project layout from composer.json.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the manifest that marks a project root.
const FileName = "composer.json"

// legacyPrefix is accepted in front of every layout key.
const legacyPrefix = "symfony-"

// Layout is the directory layout of a project, relative to its root.
type Layout struct {
	BinDir    string `json:"bin_dir"`
	ConfDir   string `json:"conf_dir"`
	EtcDir    string `json:"etc_dir"`
	SrcDir    string `json:"src_dir"`
	VarDir    string `json:"var_dir"`
	PublicDir string `json:"public_dir"`
	VendorDir string `json:"vendor_dir"`
}

// DefaultLayout is used for every key the manifest does not override.
func DefaultLayout() Layout {
	return Layout{
		BinDir:    "bin",
		ConfDir:   "conf",
		EtcDir:    "etc",
		SrcDir:    "src",
		VarDir:    "var",
		PublicDir: "public",
		VendorDir: "vendor",
	}
}

// Resolve joins a layout directory onto root unless it is already absolute.
func Resolve(root, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

// FindProjectRoot walks up from dir until a directory holding FileName is
// found. When the filesystem root is reached without a match, dir is
// returned unchanged.
func FindProjectRoot(dir string) string {
	current, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	for {
		if info, err := os.Stat(filepath.Join(current, FileName)); err == nil && !info.IsDir() {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

type composerFile struct {
	Extra  map[string]any `json:"extra"`
	Config map[string]any `json:"config"`
}

// Read returns the layout declared by root/composer.json. A missing or
// malformed manifest yields DefaultLayout together with the error.
func Read(root string) (Layout, error) {
	layout := DefaultLayout()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		return layout, fmt.Errorf("failed to read manifest: %w", err)
	}
	var composer composerFile
	if err := json.Unmarshal(data, &composer); err != nil {
		return layout, fmt.Errorf("failed to parse manifest %s: %w", filepath.Join(root, FileName), err)
	}

	overrides := map[string]*string{
		"bin-dir":    &layout.BinDir,
		"conf-dir":   &layout.ConfDir,
		"etc-dir":    &layout.EtcDir,
		"src-dir":    &layout.SrcDir,
		"var-dir":    &layout.VarDir,
		"public-dir": &layout.PublicDir,
	}
	for key, dst := range overrides {
		if v, ok := lookup(composer.Extra, key); ok {
			*dst = v
		}
	}
	if v, ok := stringValue(composer.Config, "vendor-dir"); ok {
		layout.VendorDir = v
	}
	return layout, nil
}

// lookup prefers the plain key over its legacy prefixed variant.
func lookup(extra map[string]any, key string) (string, bool) {
	if v, ok := stringValue(extra, key); ok {
		return v, true
	}
	return stringValue(extra, legacyPrefix+key)
}

func stringValue(m map[string]any, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
