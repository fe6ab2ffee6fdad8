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
	"io"

	"github.com/google/extgen/proptools"
)

const customCommandRule = "custom_command"

// WriteBuildFile writes the graph as a Ninja manifest.  Every node becomes a
// build statement of one generic rule plus a phony target named after the
// node; nodes are written in registration order, so identical graphs produce
// identical manifests.
func (g *Graph) WriteBuildFile(w io.StringWriter) error {
	nw := newNinjaWriter(w)

	nw.Comment("This file is generated by extgen. Do not edit.")
	nw.BlankLine()
	nw.Assign("ninja_required_version", "1.7")
	nw.BlankLine()

	nw.Rule(customCommandRule,
		ninjaVar{"command", "$COMMAND"},
		ninjaVar{"description", "$DESC"},
		ninjaVar{"restat", "1"})
	if err := nw.BlankLine(); err != nil {
		return err
	}

	var defaults []string
	for _, n := range g.Nodes() {
		if err := nw.Build(buildStatement(n)); err != nil {
			return err
		}
		// A node named like a file would claim that file twice.  This
		// includes side-effect nodes, which are built under their name.
		if g.Owner(n.name) == nil {
			if err := nw.Phony(n.name, n.outputs...); err != nil {
				return err
			}
		}
		if err := nw.BlankLine(); err != nil {
			return err
		}
		defaults = append(defaults, n.targets()...)
	}

	if len(defaults) > 0 {
		if err := nw.Default(defaults...); err != nil {
			return err
		}
	}
	return nil
}

func buildStatement(n *Node) *buildStmt {
	b := &buildStmt{
		rule:    customCommandRule,
		outputs: n.targets(),
		inputs:  n.inputs,
		vars: []ninjaVar{
			{"COMMAND", proptools.NinjaEscape(n.ShellCommand())},
			{"DESC", defaultEscaper.Replace(n.displayDescription())},
		},
	}
	for _, dep := range n.extraDepends {
		b.implicits = append(b.implicits, dep.targets()...)
	}
	b.implicits = append(b.implicits, n.dependFiles...)

	if n.depfile != "" {
		b.vars = append(b.vars,
			ninjaVar{"depfile", defaultEscaper.Replace(n.depfile)},
			ninjaVar{"deps", "gcc"})
	}
	return b
}

// ShellCommand returns the node's command as a single shell command line,
// including environment overrides and output capture.
func (n *Node) ShellCommand() string {
	var argv []string
	if len(n.env) > 0 {
		argv = append(argv, "env")
		for _, k := range n.EnvKeys() {
			argv = append(argv, k+"="+n.env[k])
		}
	}
	argv = append(argv, n.command...)

	cmd := proptools.ShellJoin(argv)
	if n.capture {
		cmd += " > " + proptools.ShellEscapeIncludingSpaces(n.outputs[0])
	}
	return cmd
}

func (n *Node) displayDescription() string {
	if n.description != "" {
		return n.description
	}
	return "Generating " + n.name + " with a custom command"
}
