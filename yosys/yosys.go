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

// Package yosys shares yosys program handles and the yosys data include
// directory between the adapters that drive yosys.
package yosys

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/extgen"
)

const (
	Program       = "yosys"
	ConfigProgram = "yosys-config"
)

// A Toolchain resolves yosys programs on first use and runs yosys-config at
// most once.
type Toolchain struct {
	tools  *extgen.ToolSet
	runner extgen.HelperRunner

	mu         sync.Mutex
	includeDir string
}

func New(locator extgen.ToolLocator, runner extgen.HelperRunner) *Toolchain {
	if runner == nil {
		runner = extgen.ExecRunner{}
	}
	return &Toolchain{
		tools:  extgen.NewToolSet(locator),
		runner: runner,
	}
}

// Tool returns the program called name.
func (t *Toolchain) Tool(ctx context.Context, name string) (extgen.Tool, error) {
	return t.tools.Get(ctx, name)
}

// IncludeDir returns the directory holding the yosys backend headers, as
// reported by "yosys-config --datdir/include".
func (t *Toolchain) IncludeDir(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.includeDir != "" {
		return t.includeDir, nil
	}

	if _, err := t.tools.Get(ctx, Program); err != nil {
		return "", err
	}
	config, err := t.tools.Get(ctx, ConfigProgram)
	if err != nil {
		return "", err
	}

	args := []string{"--datdir/include"}
	out, err := t.runner.Output(ctx, config, args...)
	if err != nil {
		var toolErr *extgen.ExternalToolError
		if !errors.As(err, &toolErr) {
			err = &extgen.ExternalToolError{Command: append([]string{config.Path}, args...), Err: err}
		}
		return "", err
	}

	dir := strings.TrimSpace(out)
	if i := strings.IndexByte(dir, '\n'); i >= 0 {
		dir = strings.TrimSpace(dir[:i])
	}
	if dir == "" {
		return "", &extgen.ExternalToolError{
			Command: append([]string{config.Path}, args...),
			Output:  out,
			Err:     errors.New("printed no include directory"),
		}
	}

	t.includeDir = dir
	return dir, nil
}

// IncludePath joins elem to the include directory.
func (t *Toolchain) IncludePath(ctx context.Context, elem ...string) (string, error) {
	dir, err := t.IncludeDir(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}
