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
	"fmt"
	"sort"
)

// A NodeParams object contains the set of parameters that make up one custom
// build step.  Outputs and Depfile are relative to Dir, which is itself
// relative to the build root.
type NodeParams struct {
	Name         string            // Unique name of the node.
	Dir          string            // Build subdirectory the node's outputs live in.
	Description  string            // The description printed when the node runs.
	Command      CommandTemplate   // The command to run.
	Inputs       []PathSpec        // Files the command consumes, in @INPUT@ order.
	Outputs      []string          // Files the command produces, in @OUTPUTn@ order.
	Depfile      string            // Dependency file written by the tool, if any.
	Capture      bool              // Redirect standard output to the single output.
	ExtraDepends []*Node           // Nodes that must finish first.
	DependFiles  []PathSpec        // Tracked files that are not command inputs.
	Env          map[string]string // Environment overrides for the command.

	// SideEffect allows a node without declared inputs.
	SideEffect bool
}

// A Node is one synthesized build step.  Nodes are created by Graph.Build and
// are never modified afterwards; the accessors return copies.
type Node struct {
	name         string
	dir          string
	description  string
	command      []string
	inputs       []string
	outputs      []string
	depfile      string
	capture      bool
	extraDepends []*Node
	dependFiles  []string
	env          map[string]string
}

func (n *Node) Name() string        { return n.name }
func (n *Node) Dir() string         { return n.dir }
func (n *Node) Description() string { return n.description }
func (n *Node) Depfile() string     { return n.depfile }
func (n *Node) Capture() bool       { return n.capture }

// Command returns the resolved argument list.
func (n *Node) Command() []string { return append([]string(nil), n.command...) }

// Inputs returns the build-relative input paths in declaration order.
func (n *Node) Inputs() []string { return append([]string(nil), n.inputs...) }

// Outputs returns the build-relative output paths in declaration order.
func (n *Node) Outputs() []string { return append([]string(nil), n.outputs...) }

func (n *Node) ExtraDepends() []*Node { return append([]*Node(nil), n.extraDepends...) }

func (n *Node) DependFiles() []string { return append([]string(nil), n.dependFiles...) }

// Env returns a copy of the environment overrides, or nil if there are none.
func (n *Node) Env() map[string]string {
	if len(n.env) == 0 {
		return nil
	}
	env := make(map[string]string, len(n.env))
	for k, v := range n.env {
		env[k] = v
	}
	return env
}

// EnvKeys returns the names of the environment overrides, sorted.
func (n *Node) EnvKeys() []string {
	keys := make([]string, 0, len(n.env))
	for k := range n.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Output returns a reference to the i'th declared output.
func (n *Node) Output(i int) (GeneratedPath, error) {
	if i < 0 || i >= len(n.outputs) {
		return GeneratedPath{}, &TemplateError{
			Node:        n.name,
			Placeholder: fmt.Sprintf("@OUTPUT%d@", i),
			Err:         fmt.Errorf("index %d out of range, node has %d outputs", i, len(n.outputs)),
		}
	}
	return GeneratedPath{Node: n, Index: i}, nil
}

// OutputPaths returns a reference to every declared output.
func (n *Node) OutputPaths() []PathSpec {
	paths := make([]PathSpec, len(n.outputs))
	for i := range n.outputs {
		paths[i] = GeneratedPath{Node: n, Index: i}
	}
	return paths
}

func (n *Node) String() string { return n.name }

// targets returns the outputs of n, or its name if it declares none.  A
// side-effect node is built under its own name.
func (n *Node) targets() []string {
	if len(n.outputs) == 0 {
		return []string{n.name}
	}
	return n.outputs
}

// claims returns every build-tree path n owns.
func (n *Node) claims() []string {
	claims := append([]string(nil), n.targets()...)
	if n.depfile != "" {
		claims = append(claims, n.depfile)
	}
	return claims
}

// Nodes returns a list holding n, so a single node can be used wherever a
// Result is expected.
func (n *Node) Nodes() []*Node { return []*Node{n} }

// A Result is returned by adapter operations.  Nodes lists every node the
// operation created, in creation order.
type Result interface {
	Nodes() []*Node
}
