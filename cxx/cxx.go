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

// Package cxx generates the C++ side of a Rust/C++ bridge with cxxbridge.
package cxx

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/extgen"
)

const Program = "cxxbridge"

// RuntimeHeader is the path of the cxx runtime header relative to the
// directory it is generated in.
const RuntimeHeader = "rust/cxx.h"

type Module struct {
	graph *extgen.Graph
	tools *extgen.ToolSet

	mu       sync.Mutex
	runtimes map[string]*extgen.Node // by directory
}

func New(graph *extgen.Graph, locator extgen.ToolLocator) *Module {
	return &Module{
		graph:    graph,
		tools:    extgen.NewToolSet(locator),
		runtimes: make(map[string]*extgen.Node),
	}
}

type GenerateArgs struct {
	Dir    string
	Name   string
	Bridge extgen.PathSpec // the Rust source declaring the bridge
}

// A Bridge holds the nodes of one Generate call.  RuntimeHeader is shared by
// every bridge generated in the same directory.
type Bridge struct {
	RuntimeHeader *extgen.Node
	Header        *extgen.Node
	Source        *extgen.Node
}

func (b *Bridge) Nodes() []*extgen.Node {
	return []*extgen.Node{b.RuntimeHeader, b.Header, b.Source}
}

// Generate produces <Name>.h and <Name>.cc from Bridge, and the runtime
// header rust/cxx.h unless an earlier call in the same directory did.
func (m *Module) Generate(ctx context.Context, args GenerateArgs) (*Bridge, error) {
	const op = "cxx.generate"
	if args.Name == "" {
		return nil, extgen.Validationf(op, "name is required")
	}
	if args.Bridge == nil {
		return nil, extgen.Validationf(op, "bridge source is required")
	}

	bridge, err := m.tools.Get(ctx, Program)
	if err != nil {
		return nil, err
	}

	rh, err := m.runtimeHeader(ctx, bridge, args)
	if err != nil {
		return nil, err
	}

	h, err := m.graph.Build(ctx, extgen.NodeParams{
		Name:        args.Name + "_cxx_h",
		Dir:         args.Dir,
		Description: fmt.Sprintf("Generating C++ header for %s", args.Bridge),
		Command:     extgen.NewCommand(extgen.ToolArg(bridge), extgen.Text("@INPUT@"), extgen.Text("--header")),
		Inputs:      []extgen.PathSpec{args.Bridge},
		Outputs:     []string{args.Name + ".h"},
		Capture:     true,
	})
	if err != nil {
		return nil, err
	}

	cc, err := m.graph.Build(ctx, extgen.NodeParams{
		Name:         args.Name + "_cxx_cc",
		Dir:          args.Dir,
		Description:  fmt.Sprintf("Generating C++ source for %s", args.Bridge),
		Command:      extgen.NewCommand(extgen.ToolArg(bridge), extgen.Text("@INPUT@")),
		Inputs:       []extgen.PathSpec{args.Bridge},
		Outputs:      []string{args.Name + ".cc"},
		Capture:      true,
		ExtraDepends: []*extgen.Node{h},
	})
	if err != nil {
		return nil, err
	}

	return &Bridge{RuntimeHeader: rh, Header: h, Source: cc}, nil
}

func (m *Module) runtimeHeader(ctx context.Context, bridge extgen.Tool, args GenerateArgs) (*extgen.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.runtimes[args.Dir]; ok {
		return n, nil
	}

	n, err := m.graph.Build(ctx, extgen.NodeParams{
		Name:        args.Name + "_cxx_rh",
		Dir:         args.Dir,
		Description: "Generating cxx runtime header",
		Command:     extgen.NewCommand(extgen.ToolArg(bridge), extgen.Text("--header")),
		Inputs:      []extgen.PathSpec{args.Bridge},
		Outputs:     []string{RuntimeHeader},
		Capture:     true,
	})
	if err != nil {
		return nil, err
	}
	m.runtimes[args.Dir] = n
	return n, nil
}
