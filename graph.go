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
	"errors"
	"path/filepath"
	"sync"

	"github.com/google/extgen/internal/ctxlog"
)

// A Graph collects the nodes of one graph-construction pass.  It owns the
// namespaces of node names and output paths: a second claim on either is a
// *GraphConflictError and never replaces the first node.
type Graph struct {
	sync.Mutex
	paths PathContext

	nodes   []*Node
	names   map[string]*Node
	outputs map[string]*Node
}

func NewGraph(paths PathContext) *Graph {
	return &Graph{
		paths:   paths,
		names:   make(map[string]*Node),
		outputs: make(map[string]*Node),
	}
}

func (g *Graph) Paths() PathContext { return g.paths }

// Nodes returns the registered nodes in registration order.
func (g *Graph) Nodes() []*Node {
	g.Lock()
	defer g.Unlock()
	return append([]*Node(nil), g.nodes...)
}

// Lookup returns the node called name, or nil.
func (g *Graph) Lookup(name string) *Node {
	g.Lock()
	defer g.Unlock()
	return g.names[name]
}

// Build synthesizes a node from params and registers it.  Nothing is
// registered if an error is returned.
func (g *Graph) Build(ctx context.Context, params NodeParams) (*Node, error) {
	if err := g.validate(params); err != nil {
		return nil, err
	}

	n := &Node{
		name:         params.Name,
		dir:          filepath.Clean(params.Dir),
		description:  params.Description,
		capture:      params.Capture,
		extraDepends: append([]*Node(nil), params.ExtraDepends...),
	}
	if params.Dir == "" {
		n.dir = ""
	}

	for _, in := range params.Inputs {
		n.inputs = append(n.inputs, in.BuildRel(g.paths))
	}
	for _, out := range params.Outputs {
		n.outputs = append(n.outputs, filepath.Join(n.dir, out))
	}
	if params.Depfile != "" {
		n.depfile = filepath.Join(n.dir, params.Depfile)
	}
	for _, f := range params.DependFiles {
		n.dependFiles = append(n.dependFiles, f.BuildRel(g.paths))
	}
	if len(params.Env) > 0 {
		n.env = make(map[string]string, len(params.Env))
		for k, v := range params.Env {
			n.env[k] = v
		}
	}

	for _, out := range n.outputs {
		if out == n.depfile {
			return nil, Validationf(n.name, "depfile %q is also declared as an output", out)
		}
	}

	command, err := params.Command.Resolve(Bindings{
		Node:    n.name,
		Paths:   g.paths,
		Inputs:  n.inputs,
		Outputs: n.outputs,
		Depfile: n.depfile,
		OutDir:  n.dir,
	})
	if err != nil {
		return nil, err
	}
	n.command = command

	if err := g.register(n); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("registered node", "node", n.name, "outputs", n.outputs, "depfile", n.depfile)
	return n, nil
}

func (g *Graph) validate(params NodeParams) error {
	op := params.Name
	switch {
	case params.Name == "":
		return &ValidationError{Err: errors.New("node has no name")}
	case params.Command.Len() == 0:
		return Validationf(op, "node has no command")
	case params.Capture && len(params.Outputs) != 1:
		return Validationf(op, "capture requires exactly one output, got %d", len(params.Outputs))
	case len(params.Outputs) == 0 && !params.SideEffect:
		return Validationf(op, "node declares no outputs")
	case len(params.Inputs) == 0 && !params.SideEffect:
		return Validationf(op, "node declares no inputs")
	}

	seen := make(map[string]bool, len(params.Outputs))
	for _, out := range params.Outputs {
		if out == "" {
			return Validationf(op, "empty output name")
		}
		if seen[out] {
			return Validationf(op, "output %q declared twice", out)
		}
		seen[out] = true
	}

	g.Lock()
	defer g.Unlock()
	for i, dep := range params.ExtraDepends {
		if dep == nil || g.names[dep.name] != dep {
			return Validationf(op, "extra dependency %d is not a node of this graph", i)
		}
	}
	return nil
}

func (g *Graph) register(n *Node) error {
	g.Lock()
	defer g.Unlock()

	if prev, ok := g.names[n.name]; ok {
		return &GraphConflictError{Kind: NameConflict, Key: n.name, Existing: prev.name, Conflicting: n.name}
	}
	claims := n.claims()
	for _, out := range claims {
		if prev, ok := g.outputs[out]; ok {
			return &GraphConflictError{Kind: OutputConflict, Key: out, Existing: prev.name, Conflicting: n.name}
		}
	}

	g.names[n.name] = n
	for _, out := range claims {
		g.outputs[out] = n
	}
	g.nodes = append(g.nodes, n)
	return nil
}

// Owner returns the node that claimed path as an output, depfile or
// side-effect target, or nil.
func (g *Graph) Owner(path string) *Node {
	g.Lock()
	defer g.Unlock()
	return g.outputs[filepath.Clean(path)]
}
