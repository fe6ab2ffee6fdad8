// Copyright 2026 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source_dir: src
build_dir: build
tools:
  cargo: /opt/rust/bin/cargo
search_path: [/opt/bin]
log:
  level: debug
`), 0666))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadConfig(path))

	require.Equal(t, "src", cfg.SourceDir)
	require.Equal(t, "build", cfg.BuildDir)
	require.Equal(t, "build.hcl", cfg.Description, "unset keys keep their defaults")
	require.Equal(t, map[string]string{"cargo": "/opt/rust/bin/cargo"}, cfg.Tools)
	require.Equal(t, []string{"/opt/bin"}, cfg.SearchPath)
	require.Equal(t, LogConfig{Level: "debug", Format: "text"}, cfg.Log)
	require.Equal(t, "build/build.ninja", cfg.OutputPath())
	require.Equal(t, path, cfg.file)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	require.Error(t, cfg.LoadConfig(filepath.Join(dir, "missing.yaml")))

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_dirs: src\n"), 0666))
	err := cfg.LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "source_dirs")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *Config)
	}{
		{"empty source dir", func(c *Config) { c.SourceDir = "" }},
		{"empty build dir", func(c *Config) { c.BuildDir = "" }},
		{"description with directory", func(c *Config) { c.Description = "sub/build.hcl" }},
		{"same source and build dir", func(c *Config) { c.BuildDir = "./" }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
