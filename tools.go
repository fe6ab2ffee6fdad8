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

package extgen

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/extgen/internal/ctxlog"
)

// A Tool is a resolved external program.
type Tool struct {
	Name string // the name that was looked up
	Path string // the invocable path
}

// A ToolLocator resolves a program name to an invocable path.
type ToolLocator interface {
	FindProgram(name string) (Tool, error)
}

// A PathLocator finds programs through explicit overrides, then the extra
// search directories, then $PATH.
type PathLocator struct {
	Overrides  map[string]string
	SearchPath []string
}

func (l *PathLocator) FindProgram(name string) (Tool, error) {
	if p, ok := l.Overrides[name]; ok {
		if _, err := os.Stat(p); err != nil {
			return Tool{}, &ToolResolutionError{Tool: name, Err: err}
		}
		return Tool{Name: name, Path: p}, nil
	}

	for _, dir := range l.SearchPath {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return Tool{Name: name, Path: p}, nil
		}
	}

	p, err := exec.LookPath(name)
	if err != nil {
		return Tool{}, &ToolResolutionError{Tool: name, Err: err}
	}
	return Tool{Name: name, Path: p}, nil
}

// A StaticLocator resolves programs from a fixed name to path table without
// consulting the file system.
type StaticLocator map[string]string

func (s StaticLocator) FindProgram(name string) (Tool, error) {
	p, ok := s[name]
	if !ok {
		return Tool{}, &ToolResolutionError{Tool: name, Err: exec.ErrNotFound}
	}
	return Tool{Name: name, Path: p}, nil
}

// A ToolSet memoizes tool lookups so that every node invoking a tool shares
// one handle.  Each adapter owns its own ToolSet.
type ToolSet struct {
	sync.Mutex
	locator ToolLocator
	tools   map[string]Tool
}

func NewToolSet(locator ToolLocator) *ToolSet {
	return &ToolSet{
		locator: locator,
		tools:   make(map[string]Tool),
	}
}

// Get returns the tool called name, resolving it on first use.  Failed lookups
// are not cached.
func (s *ToolSet) Get(ctx context.Context, name string) (Tool, error) {
	s.Lock()
	defer s.Unlock()

	if t, ok := s.tools[name]; ok {
		return t, nil
	}

	t, err := s.locator.FindProgram(name)
	if err != nil {
		var resErr *ToolResolutionError
		if !errors.As(err, &resErr) {
			err = &ToolResolutionError{Tool: name, Err: err}
		}
		return Tool{}, err
	}
	ctxlog.FromContext(ctx).Debug("resolved tool", "tool", name, "path", t.Path)
	s.tools[name] = t
	return t, nil
}

// A HelperRunner runs a program to completion during graph construction and
// returns its standard output.
type HelperRunner interface {
	Output(ctx context.Context, tool Tool, args ...string) (string, error)
}

// ExecRunner is a HelperRunner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Output(ctx context.Context, tool Tool, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, tool.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	ctxlog.FromContext(ctx).Debug("running helper", "tool", tool.Name, "args", args)
	if err := cmd.Run(); err != nil {
		return "", &ExternalToolError{
			Command: append([]string{tool.Path}, args...),
			Output:  stderr.String(),
			Err:     err,
		}
	}
	return stdout.String(), nil
}
