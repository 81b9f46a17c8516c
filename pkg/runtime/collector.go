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

package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Collector gathers the facts of a PHP runtime.
type Collector interface {
	Collect(ctx context.Context) (*Facts, error)
}

// FileCollector reads facts from a fixture file instead of a live runtime.
type FileCollector struct {
	path string
}

// NewFileCollector creates a collector backed by a JSON, YAML or TOML file.
func NewFileCollector(path string) *FileCollector {
	return &FileCollector{path: path}
}

// Collect loads the fixture.
func (c *FileCollector) Collect(_ context.Context) (*Facts, error) {
	return LoadFacts(c.path)
}

// LoadFacts reads a facts file. The format follows the file extension; unknown
// extensions are decoded as JSON.
func LoadFacts(path string) (*Facts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file: %w", err)
	}

	facts := &Facts{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, facts)
	case ".toml":
		err = toml.Unmarshal(data, facts)
	default:
		err = json.Unmarshal(data, facts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse facts file %s: %w", path, err)
	}
	facts.normalize()
	return facts, nil
}

// EncodeFacts renders facts as "json" or "yaml".
func EncodeFacts(facts *Facts, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(facts); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "toml":
		return toml.Marshal(facts)
	case "json", "":
		return json.MarshalIndent(facts, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported facts format: %s", format)
	}
}

func (f *Facts) normalize() {
	f.PHPVersion = strings.TrimSpace(f.PHPVersion)
	if f.Directives == nil {
		f.Directives = make(map[string]string)
	}
}
