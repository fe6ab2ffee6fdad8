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

// Package filament compiles Filament hardware descriptions to SystemVerilog.
package filament

import (
	"context"
	"fmt"

	"github.com/google/extgen"
)

const Program = "filament"

type Module struct {
	graph *extgen.Graph
	tools *extgen.ToolSet
}

func New(graph *extgen.Graph, locator extgen.ToolLocator) *Module {
	return &Module{graph: graph, tools: extgen.NewToolSet(locator)}
}

type GenerateArgs struct {
	Dir    string
	Name   string
	Source extgen.PathSpec
	Lib    extgen.PathSpec // the Filament standard library directory
}

// Generate compiles Source into <Name>.sv and dumps the interface to
// <Name>.it.  The compiler writes its dependencies to <Name>.d.
func (m *Module) Generate(ctx context.Context, args GenerateArgs) (*extgen.Node, error) {
	const op = "filament.generate"
	switch {
	case args.Name == "":
		return nil, extgen.Validationf(op, "name is required")
	case args.Source == nil:
		return nil, extgen.Validationf(op, "source is required")
	case args.Lib == nil:
		return nil, extgen.Validationf(op, "lib is required")
	}

	compiler, err := m.tools.Get(ctx, Program)
	if err != nil {
		return nil, err
	}

	return m.graph.Build(ctx, extgen.NodeParams{
		Name:        args.Name + "_sv",
		Dir:         args.Dir,
		Description: fmt.Sprintf("Compiling %s with Filament", args.Source),
		Command: extgen.NewCommand(
			extgen.ToolArg(compiler),
			extgen.Text("@INPUT@"),
			extgen.Text("-l"), extgen.PathArg(args.Lib),
			extgen.Text("--out"), extgen.Text("@OUTPUT0@"),
			extgen.Text("--dump-interface-file"), extgen.Text("@OUTPUT1@"),
			extgen.Text("--dump-dep-file"), extgen.Text("@DEPFILE@"),
		),
		Inputs:  []extgen.PathSpec{args.Source},
		Outputs: []string{args.Name + ".sv", args.Name + ".it"},
		Depfile: args.Name + ".d",
	})
}
