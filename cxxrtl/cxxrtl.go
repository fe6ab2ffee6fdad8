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

// Package cxxrtl translates RTL designs to C++ with the yosys CXXRTL backend
// and runs the translated simulations through the cxxrtl-driver program.
package cxxrtl

import (
	"context"
	"fmt"

	"github.com/google/extgen"
	"github.com/google/extgen/yosys"
)

const DriverProgram = "cxxrtl-driver"

// DefaultScript is the yosys script run by Generate when none is given.
const DefaultScript = "hierarchy -top main; write_cxxrtl -O0 -print-output std::cerr @OUTPUT@"

type Module struct {
	graph *extgen.Graph
	yosys *yosys.Toolchain
}

// New returns a Module that registers its nodes in graph.  toolchain may be
// shared with other yosys-based modules.
func New(graph *extgen.Graph, toolchain *yosys.Toolchain) *Module {
	return &Module{graph: graph, yosys: toolchain}
}

type GenerateArgs struct {
	// Dir is the subdirectory the call is made from.
	Dir    string
	Name   string
	Source extgen.PathSpec
	Script string
}

// Generate translates Source into <Name>.cc.  The script writes the output
// itself through @OUTPUT@.
func (m *Module) Generate(ctx context.Context, args GenerateArgs) (*extgen.Node, error) {
	const op = "cxxrtl.generate"
	if args.Name == "" {
		return nil, extgen.Validationf(op, "name is required")
	}
	if args.Source == nil {
		return nil, extgen.Validationf(op, "source is required")
	}
	script := args.Script
	if script == "" {
		script = DefaultScript
	}

	y, err := m.yosys.Tool(ctx, yosys.Program)
	if err != nil {
		return nil, err
	}

	return m.graph.Build(ctx, extgen.NodeParams{
		Name:        args.Name + "_cc",
		Dir:         args.Dir,
		Description: fmt.Sprintf("Translating %s to C++ with CXXRTL", args.Source),
		Command: extgen.NewCommand(
			extgen.ToolArg(y),
			extgen.Text("-q"),
			extgen.Text("-p"),
			extgen.Text(script),
			extgen.Text("@INPUT@"),
		),
		Inputs:  []extgen.PathSpec{args.Source},
		Outputs: []string{args.Name + ".cc"},
	})
}

type SimArgs struct {
	Dir       string
	Name      string
	Design    extgen.PathSpec // the simulation library
	Data      extgen.PathSpec // stimulus data
	Interface extgen.PathSpec // interface description of the design
	VCD       bool            // also dump a waveform
}

// Sim runs the simulation driver and captures its report in <Name>.sim.  The
// design, data and interface files are tracked without being command inputs.
func (m *Module) Sim(ctx context.Context, args SimArgs) (*extgen.Node, error) {
	const op = "cxxrtl.sim"
	switch {
	case args.Name == "":
		return nil, extgen.Validationf(op, "name is required")
	case args.Design == nil:
		return nil, extgen.Validationf(op, "design is required")
	case args.Data == nil:
		return nil, extgen.Validationf(op, "data is required")
	case args.Interface == nil:
		return nil, extgen.Validationf(op, "interface is required")
	}

	driver, err := m.yosys.Tool(ctx, DriverProgram)
	if err != nil {
		return nil, err
	}

	data := extgen.BuiltRelative(args.Data)
	iface := extgen.BuiltRelative(args.Interface)

	cmd := extgen.NewCommand(
		extgen.ToolArg(driver),
		extgen.Text("--design"), extgen.PathArg(args.Design),
		extgen.Text("--data"), extgen.PathArg(data),
		extgen.Text("--interface"), extgen.PathArg(iface),
	)
	if args.VCD {
		cmd = cmd.Append(extgen.Text("--vcd"))
	}

	return m.graph.Build(ctx, extgen.NodeParams{
		Name:        args.Name + "_sim",
		Dir:         args.Dir,
		Description: fmt.Sprintf("Simulating %s", args.Name),
		Command:     cmd,
		Outputs:     []string{args.Name + ".sim"},
		Capture:     true,
		DependFiles: []extgen.PathSpec{args.Design, data, iface},
		SideEffect:  true,
	})
}

// Includes returns the directory holding the CXXRTL runtime headers.
func (m *Module) Includes(ctx context.Context) (string, error) {
	return m.yosys.IncludeDir(ctx)
}

// Sources returns the CXXRTL runtime sources a simulation must be linked
// with.
func (m *Module) Sources(ctx context.Context) ([]string, error) {
	src, err := m.yosys.IncludePath(ctx, "backends", "cxxrtl", "cxxrtl_capi.cc")
	if err != nil {
		return nil, err
	}
	return []string{src}, nil
}
