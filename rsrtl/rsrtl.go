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

// Package rsrtl translates RTL designs to C++ for the rsrtl simulation
// runtime.  The translation is done by yosys, either with an inline script
// or with a Tcl script from the source tree.
package rsrtl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/extgen"
	"github.com/google/extgen/pathtools"
	"github.com/google/extgen/yosys"
)

// DefaultScript is the inline yosys script used when none is given.
const DefaultScript = "hierarchy -top main; write_cxxrtl -print-output std::cerr @OUTPUT@"

type Module struct {
	graph *extgen.Graph
	yosys *yosys.Toolchain
}

func New(graph *extgen.Graph, toolchain *yosys.Toolchain) *Module {
	return &Module{graph: graph, yosys: toolchain}
}

type GenerateArgs struct {
	Dir    string
	Name   string
	Source extgen.PathSpec

	// Script is an inline yosys script, or the name of a Tcl script relative
	// to Dir when Tcl is set or the name ends in ".tcl".
	Script string
	Tcl    bool

	// Header also produces <Name>.h.
	Header bool
}

// Generate translates Source into <Name>.cc, plus <Name>.h when Header is set.
func (m *Module) Generate(ctx context.Context, args GenerateArgs) (*extgen.Node, error) {
	const op = "rsrtl.generate"
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
	tcl := args.Tcl || strings.HasSuffix(script, ".tcl")
	if tcl && (args.Script == "" || strings.ContainsAny(script, " ;\n")) {
		return nil, extgen.Validationf(op, "tcl mode requires a script file, got %q", script)
	}

	y, err := m.yosys.Tool(ctx, yosys.Program)
	if err != nil {
		return nil, err
	}

	outputs := []string{args.Name + ".cc"}
	if args.Header {
		outputs = append(outputs, pathtools.ReplaceExtension(outputs[0], "h"))
	}

	params := extgen.NodeParams{
		Name:        args.Name + "_rsrtl",
		Dir:         args.Dir,
		Description: fmt.Sprintf("Translating %s to C++ for rsrtl", args.Source),
		Inputs:      []extgen.PathSpec{args.Source},
		Outputs:     outputs,
	}

	if tcl {
		scriptFile := extgen.NewSourcePath(args.Dir, script)
		primary := filepath.Join(args.Dir, outputs[0])
		params.Command = extgen.NewCommand(
			extgen.ToolArg(y),
			extgen.Text("-q"),
			extgen.Text("-p"),
			extgen.Text(fmt.Sprintf("tcl %s %s @INPUT@", scriptFile.BuildRel(m.graph.Paths()), primary)),
		)
		params.DependFiles = []extgen.PathSpec{scriptFile}
	} else {
		params.Command = extgen.NewCommand(
			extgen.ToolArg(y),
			extgen.Text("-q"),
			extgen.Text("-p"),
			extgen.Text(script),
			extgen.Text("@INPUT@"),
		)
	}

	return m.graph.Build(ctx, params)
}

// Includes returns the directory holding the yosys backend headers the
// translated sources include.
func (m *Module) Includes(ctx context.Context) (string, error) {
	return m.yosys.IncludeDir(ctx)
}
