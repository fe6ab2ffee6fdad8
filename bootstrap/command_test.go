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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/google/extgen"
	"github.com/google/extgen/internal/ctxlog"
)

var testLocator = extgen.StaticLocator{
	"cargo":     "/usr/bin/cargo",
	"cxxbridge": "/usr/bin/cxxbridge",
	"filament":  "/usr/bin/filament",
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0777))
		require.NoError(t, os.WriteFile(p, []byte(content), 0666))
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")
	writeFiles(t, src, map[string]string{
		"build.hcl": `
filament_generate "alu" {
  source = "alu.fil"
  lib    = "lib"
}

subdir "rust" {}
`,
		"rust/build.hcl": `
cargo_staticlib "foo" {
  manifest = "."
}
`,
		"rust/Cargo.toml": `
[package]
name = "foo"

[lib]
crate-type = ["staticlib"]
`,
	})

	cfg := DefaultConfig()
	cfg.SourceDir = src
	cfg.BuildDir = out
	cfg.Depfile = filepath.Join(out, "build.ninja.d")

	logs := &bytes.Buffer{}
	ctx := ctxlog.WithLogger(context.Background(), newLogger("info", "text", logs))
	require.NoError(t, Run(ctx, cfg, Deps{Locator: testLocator}))

	manifest, err := os.ReadFile(filepath.Join(out, "build.ninja"))
	require.NoError(t, err)
	require.Contains(t, string(manifest), "build alu.sv alu.it: custom_command ../src/alu.fil\n")
	require.Contains(t, string(manifest), "build alu_sv: phony alu.sv alu.it\n")
	require.Contains(t, string(manifest),
		"COMMAND = /usr/bin/filament ../src/alu.fil -l ../src/lib --out alu.sv --dump-interface-file alu.it --dump-dep-file alu.d\n")
	require.Contains(t, string(manifest), "build rust/foo_target/debug/libfoo.a: custom_command ../src/rust/Cargo.toml\n")
	require.Contains(t, string(manifest), "default alu.sv alu.it rust/foo_target/debug/libfoo.a\n")

	depfile, err := os.ReadFile(cfg.Depfile)
	require.NoError(t, err)
	want := fmt.Sprintf("%s: \\\n %s \\\n %s \\\n %s\n",
		filepath.Join(out, "build.ninja"),
		filepath.Join(src, "build.hcl"),
		filepath.Join(src, "rust", "build.hcl"),
		filepath.Join(src, "rust", "Cargo.toml"))
	require.Equal(t, want, string(depfile))

	require.Contains(t, logs.String(), "wrote build file")
	require.Contains(t, logs.String(), "nodes=2")
}

func TestRunErrors(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")
	writeFiles(t, src, map[string]string{
		"build.hcl": `
cxx_generate "demo" {
  bridge = "lib.rs"
}
`,
	})

	cfg := DefaultConfig()
	cfg.SourceDir = src
	cfg.BuildDir = out

	err := Run(context.Background(), cfg, Deps{Locator: extgen.StaticLocator{}})
	var resErr *extgen.ToolResolutionError
	require.True(t, errors.As(err, &resErr), "got %v", err)
	require.Equal(t, "cxxbridge", resErr.Tool)
	require.True(t, isUserError(err))

	_, statErr := os.Stat(filepath.Join(out, "build.ninja"))
	require.True(t, os.IsNotExist(statErr), "no manifest is written on failure")
}

func TestIsUserError(t *testing.T) {
	require.True(t, isUserError(extgen.Validationf("cargo.staticlib", "bad")))
	require.True(t, isUserError(fmt.Errorf("wrapped: %w", &extgen.GraphConflictError{})))
	require.False(t, isUserError(errors.New("boom")))
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newLogger("warn", "json", buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], `"msg":"shown"`)
	require.Contains(t, lines[0], `"key":"value"`)
}
