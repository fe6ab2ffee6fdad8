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

package cxx

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/extgen"
)

var testPaths = extgen.PathContext{SourceDir: "/src", BuildDir: "/src/out"}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	g := extgen.NewGraph(testPaths)
	m := New(g, extgen.StaticLocator{Program: "/usr/bin/cxxbridge"})

	b, err := m.Generate(ctx, GenerateArgs{Dir: "rs", Name: "demo", Bridge: extgen.NewSourcePath("rs", "src/lib.rs")})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	testCases := []struct {
		node    *extgen.Node
		name    string
		command []string
		output  string
	}{
		{b.RuntimeHeader, "demo_cxx_rh", []string{"/usr/bin/cxxbridge", "--header"}, "rs/rust/cxx.h"},
		{b.Header, "demo_cxx_h", []string{"/usr/bin/cxxbridge", "../rs/src/lib.rs", "--header"}, "rs/demo.h"},
		{b.Source, "demo_cxx_cc", []string{"/usr/bin/cxxbridge", "../rs/src/lib.rs"}, "rs/demo.cc"},
	}
	for _, tc := range testCases {
		if tc.node.Name() != tc.name {
			t.Errorf("expected node %q, got %q", tc.name, tc.node.Name())
		}
		if diff := cmp.Diff(tc.command, tc.node.Command()); diff != "" {
			t.Errorf("%s: command mismatch (-want +got):\n%s", tc.name, diff)
		}
		if diff := cmp.Diff([]string{tc.output}, tc.node.Outputs()); diff != "" {
			t.Errorf("%s: outputs mismatch (-want +got):\n%s", tc.name, diff)
		}
		if !tc.node.Capture() {
			t.Errorf("%s: expected captured output", tc.name)
		}
	}

	if deps := b.Source.ExtraDepends(); len(deps) != 1 || deps[0] != b.Header {
		t.Errorf("source node must depend on the header node, got %v", deps)
	}
	nodes := b.Nodes()
	if len(nodes) != 3 || nodes[0] != b.RuntimeHeader || nodes[1] != b.Header || nodes[2] != b.Source {
		t.Errorf("unexpected nodes %v", nodes)
	}
}

func TestRuntimeHeaderShared(t *testing.T) {
	ctx := context.Background()
	g := extgen.NewGraph(testPaths)
	m := New(g, extgen.StaticLocator{Program: "cxxbridge"})

	a, err := m.Generate(ctx, GenerateArgs{Dir: "rs", Name: "a", Bridge: extgen.NewSourcePath("rs", "a.rs")})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	b, err := m.Generate(ctx, GenerateArgs{Dir: "rs", Name: "b", Bridge: extgen.NewSourcePath("rs", "b.rs")})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if a.RuntimeHeader != b.RuntimeHeader {
		t.Errorf("bridges in one directory must share the runtime header")
	}

	c, err := m.Generate(ctx, GenerateArgs{Dir: "other", Name: "c", Bridge: extgen.NewSourcePath("other", "c.rs")})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if c.RuntimeHeader == a.RuntimeHeader {
		t.Errorf("bridges in different directories must not share the runtime header")
	}
	if got := len(g.Nodes()); got != 8 {
		t.Errorf("expected 8 nodes, got %d", got)
	}
}
