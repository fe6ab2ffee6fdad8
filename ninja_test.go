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
	"context"
	"strings"
	"testing"
)

var testPaths = PathContext{SourceDir: "/src", BuildDir: "/src/out"}

func TestWriteBuildFile(t *testing.T) {
	ctx := context.Background()
	g := NewGraph(testPaths)
	bridge := Tool{Name: "cxxbridge", Path: "/usr/bin/cxxbridge"}
	src := NewSourcePath("sub", "lib.rs")

	h, err := g.Build(ctx, NodeParams{
		Name:        "gen_h",
		Dir:         "sub",
		Description: "Generating header",
		Command:     NewCommand(ToolArg(bridge), Text("@INPUT@"), Text("--header")),
		Inputs:      []PathSpec{src},
		Outputs:     []string{"lib.h"},
		Capture:     true,
	})
	ck(err)

	_, err = g.Build(ctx, NodeParams{
		Name:         "gen_cc",
		Dir:          "sub",
		Command:      NewCommand(ToolArg(bridge), Text("@INPUT@")),
		Inputs:       []PathSpec{src},
		Outputs:      []string{"lib.cc"},
		Depfile:      "lib.d",
		Capture:      true,
		ExtraDepends: []*Node{h},
		Env:          map[string]string{"K": "v w"},
	})
	ck(err)

	want := `# This file is generated by extgen. Do not edit.

ninja_required_version = 1.7

rule custom_command
    command = $COMMAND
    description = $DESC
    restat = 1

build sub/lib.h: custom_command ../sub/lib.rs
    COMMAND = /usr/bin/cxxbridge ../sub/lib.rs --header > sub/lib.h
    DESC = Generating header
build gen_h: phony sub/lib.h

build sub/lib.cc: custom_command ../sub/lib.rs | sub/lib.h
    COMMAND = env 'K=v w' /usr/bin/cxxbridge ../sub/lib.rs > sub/lib.cc
    DESC = Generating gen_cc with a custom command
    depfile = sub/lib.d
    deps = gcc
build gen_cc: phony sub/lib.cc

default sub/lib.h sub/lib.cc
`

	buf := &strings.Builder{}
	if err := g.WriteBuildFile(buf); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if buf.String() != want {
		t.Errorf("incorrect manifest")
		t.Errorf("  expected: %q", want)
		t.Errorf("       got: %q", buf.String())
	}
}

func TestShellCommandEscaping(t *testing.T) {
	g := NewGraph(testPaths)
	n, err := g.Build(context.Background(), NodeParams{
		Name:    "script",
		Command: NewCommand(Text("yosys"), Text("-p"), Text("write_cxxrtl @OUTPUT@; stat $top"), Text("@INPUT@")),
		Inputs:  []PathSpec{NewSourcePath("", "top.v")},
		Outputs: []string{"top.cc"},
	})
	ck(err)

	want := `yosys -p 'write_cxxrtl top.cc; stat $top' ../top.v`
	if got := n.ShellCommand(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPhonySkippedForOutputNames(t *testing.T) {
	g := NewGraph(testPaths)
	_, err := g.Build(context.Background(), NodeParams{
		Name:    "top.cc",
		Command: NewCommand(Text("yosys"), Text("@INPUT@")),
		Inputs:  []PathSpec{NewSourcePath("", "top.v")},
		Outputs: []string{"top.cc"},
	})
	ck(err)

	buf := &strings.Builder{}
	ck(g.WriteBuildFile(buf))
	if strings.Contains(buf.String(), "phony") {
		t.Errorf("unexpected phony statement in:\n%s", buf.String())
	}
}

func TestWriteBuildFileSideEffect(t *testing.T) {
	ctx := context.Background()
	g := NewGraph(testPaths)
	run, err := g.Build(ctx, NodeParams{
		Name:       "run",
		Command:    NewCommand(Text("true")),
		SideEffect: true,
	})
	ck(err)
	_, err = g.Build(ctx, NodeParams{
		Name:         "after",
		Command:      NewCommand(Text("touch"), Text("@OUTPUT@")),
		Outputs:      []string{"done"},
		ExtraDepends: []*Node{run},
		SideEffect:   true,
	})
	ck(err)

	want := `# This file is generated by extgen. Do not edit.

ninja_required_version = 1.7

rule custom_command
    command = $COMMAND
    description = $DESC
    restat = 1

build run: custom_command
    COMMAND = true
    DESC = Generating run with a custom command

build done: custom_command | run
    COMMAND = touch done
    DESC = Generating after with a custom command
build after: phony done

default run done
`

	buf := &strings.Builder{}
	ck(g.WriteBuildFile(buf))
	if buf.String() != want {
		t.Errorf("incorrect manifest")
		t.Errorf("  expected: %q", want)
		t.Errorf("       got: %q", buf.String())
	}
}
