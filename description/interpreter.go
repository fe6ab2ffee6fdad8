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

// Package description reads HCL build descriptions and turns each block into
// a call on one of the tool adapters.
//
// A description is a sequence of blocks evaluated in source order, so a block
// may refer to the nodes declared by the blocks above it:
//
//   cxxrtl_generate "top" {
//     source = "top.v"
//   }
//
//   command "top_sim" {
//     program = "c++"
//     args    = ["-I${cxxrtl_includes()}", "@INPUT@", "-o", "@OUTPUT@"]
//     inputs  = [output("top_cc", 0)]
//     outputs = ["top_sim"]
//   }
//
//   subdir "rust" {}
//
// Plain strings name files in the source tree relative to the directory of
// the description; output(node, index) and built(path) name files in the
// build tree.
package description

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/google/extgen"
	"github.com/google/extgen/cargo"
	"github.com/google/extgen/cxx"
	"github.com/google/extgen/cxxrtl"
	"github.com/google/extgen/filament"
	"github.com/google/extgen/internal/ctxlog"
	"github.com/google/extgen/pathtools"
	"github.com/google/extgen/rsrtl"
)

const DefaultFile = "build.hcl"

// Modules holds the adapters blocks are dispatched to.  A block whose
// adapter is nil is an error.
type Modules struct {
	Cargo    *cargo.Module
	Cxx      *cxx.Module
	CXXRTL   *cxxrtl.Module
	Filament *filament.Module
	RSRTL    *rsrtl.Module

	// Tools resolves the programs of command blocks.
	Tools *extgen.ToolSet
}

// An Error is an error raised while evaluating a block.  It unwraps to the
// adapter's error.
type Error struct {
	Range hcl.Range
	Block string // "type \"label\""
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d,%d: %s: %s", e.Range.Filename, e.Range.Start.Line, e.Range.Start.Column, e.Block, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Interpreter struct {
	graph     *extgen.Graph
	fs        pathtools.FileSystem
	sourceDir string
	file      string
	modules   Modules

	parser *hclparse.Parser
	libs   map[string]*cargo.StaticLib
	files  []string
	loaded map[string]bool
}

// New returns an Interpreter that reads descriptions called file from the
// source tree rooted at sourceDir and adds their nodes to graph.
func New(graph *extgen.Graph, fs pathtools.FileSystem, sourceDir, file string, modules Modules) *Interpreter {
	if file == "" {
		file = DefaultFile
	}
	return &Interpreter{
		graph:     graph,
		fs:        fs,
		sourceDir: sourceDir,
		file:      file,
		modules:   modules,
		parser:    hclparse.NewParser(),
		libs:      make(map[string]*cargo.StaticLib),
		loaded:    make(map[string]bool),
	}
}

// Files returns every description file read so far, in reading order.
func (in *Interpreter) Files() []string {
	return append([]string(nil), in.files...)
}

// Run evaluates the description in dir, relative to the source root, and
// every description it includes.
func (in *Interpreter) Run(ctx context.Context, dir string) error {
	dir = filepath.Clean(dir)
	if dir == "." {
		dir = ""
	}
	if in.loaded[dir] {
		return fmt.Errorf("description in %q evaluated twice", dir)
	}
	in.loaded[dir] = true

	filename := filepath.Join(in.sourceDir, dir, in.file)
	src, err := pathtools.ReadFile(in.fs, filename)
	if err != nil {
		return err
	}
	in.files = append(in.files, filename)

	file, diags := in.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("%s: not a native syntax file", filename)
	}

	if len(body.Attributes) > 0 {
		names := make([]string, 0, len(body.Attributes))
		for name := range body.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		attr := body.Attributes[names[0]]
		return &Error{Range: attr.SrcRange, Block: names[0], Err: fmt.Errorf("arguments are not allowed at the top level")}
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("evaluating description", "file", filename, "blocks", len(body.Blocks))

	evalCtx := in.evalContext(ctx, dir)
	for _, block := range body.Blocks {
		if err := in.block(ctx, evalCtx, dir, block); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) block(ctx context.Context, evalCtx *hcl.EvalContext, dir string, block *hclsyntax.Block) error {
	desc := block.Type
	if len(block.Labels) > 0 {
		desc += fmt.Sprintf(" %q", strings.Join(block.Labels, " "))
	}
	wrap := func(err error) error {
		if err == nil {
			return nil
		}
		return &Error{Range: block.DefRange(), Block: desc, Err: err}
	}

	if len(block.Labels) != 1 {
		return wrap(fmt.Errorf("expected exactly one label, got %d", len(block.Labels)))
	}
	label := block.Labels[0]

	handler := lookupHandler(block.Type)
	if handler == nil {
		return wrap(fmt.Errorf("unknown block type"))
	}

	b := &blockContext{
		in:      in,
		evalCtx: evalCtx,
		dir:     dir,
		label:   label,
		body:    block.Body,
	}
	results, err := handler(ctx, b)
	if err != nil {
		return wrap(err)
	}
	for _, n := range results.Nodes() {
		ctxlog.FromContext(ctx).Debug("declared node", "block", desc, "node", n.Name())
	}
	return nil
}
