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

// Extgen turns declarations of the form "generate artifact A from source S
// using external tool T" into nodes of a build graph.  Each node carries a
// fully resolved command line, its declared inputs and outputs, an optional
// dependency file, optional output capture, ordering dependencies on other
// nodes and environment overrides.  The graph is written out as a Ninja
// (https://ninja-build.org) manifest.
//
// The package provides the pieces every tool adapter shares:
//
//   PathSpec         a file in the source tree, the build tree, or one output
//                    of another node
//   CommandTemplate  arguments with @INPUT@, @OUTPUT0@, @DEPFILE@, ...
//                    placeholders, resolved when a node is synthesized
//   Graph.Build      validates NodeParams, resolves the command and registers
//                    the node, rejecting duplicate names and outputs
//   ToolSet          lazily resolved, shared program handles
//
// Adapters for particular tool families live in subpackages (cargo, cxx,
// cxxrtl, filament, rsrtl).  An adapter is constructed with the graph and its
// collaborators and exposes a fixed set of operations, for example:
//
//   graph := extgen.NewGraph(extgen.PathContext{SourceDir: "src", BuildDir: "out"})
//   mod := cxx.New(graph, &extgen.PathLocator{})
//   bridge, err := mod.Generate(ctx, cxx.GenerateArgs{
//       Name:   "demo",
//       Bridge: extgen.NewSourcePath("", "src/lib.rs"),
//   })
//
// The description package reads HCL build descriptions and maps each block
// to an adapter call; the bootstrap package ties configuration, description
// and manifest writing together.
package extgen
