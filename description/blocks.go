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

package description

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/google/extgen"
	"github.com/google/extgen/cargo"
	"github.com/google/extgen/cxx"
	"github.com/google/extgen/cxxrtl"
	"github.com/google/extgen/filament"
	"github.com/google/extgen/rsrtl"
)

// A blockContext is the block being evaluated and where it was declared.
type blockContext struct {
	in      *Interpreter
	evalCtx *hcl.EvalContext
	dir     string
	label   string
	body    hcl.Body
}

func (b *blockContext) decode(v interface{}) error {
	if diags := gohcl.DecodeBody(b.body, b.evalCtx, v); diags.HasErrors() {
		return diags
	}
	return nil
}

// path evaluates a required file argument.
func (b *blockContext) path(name string, expr hcl.Expression) (extgen.PathSpec, error) {
	v, err := value(b.evalCtx, expr)
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		return nil, fmt.Errorf("%s is required", name)
	}
	p, err := b.in.path(b.dir, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

func (b *blockContext) paths(name string, expr hcl.Expression) ([]extgen.PathSpec, error) {
	v, err := value(b.evalCtx, expr)
	if err != nil {
		return nil, err
	}
	paths, err := b.in.paths(b.dir, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return paths, nil
}

type blockHandler func(ctx context.Context, b *blockContext) (extgen.Result, error)

func lookupHandler(blockType string) blockHandler {
	switch blockType {
	case "cargo_staticlib":
		return cargoStaticLib
	case "cargo_executable":
		return cargoExecutable
	case "cxx_generate":
		return cxxGenerate
	case "cxxrtl_generate":
		return cxxrtlGenerate
	case "cxxrtl_sim":
		return cxxrtlSim
	case "filament_generate":
		return filamentGenerate
	case "rsrtl_generate":
		return rsrtlGenerate
	case "command":
		return customCommand
	case "subdir":
		return subdir
	default:
		return nil
	}
}

func notConfigured(family string) error {
	return fmt.Errorf("%s support is not configured", family)
}

// noNodes is the result of blocks that declare nothing themselves.
type noNodes struct{}

func (noNodes) Nodes() []*extgen.Node { return nil }

type staticLibBlock struct {
	Manifest string `hcl:"manifest"`
	Package  string `hcl:"package,optional"`
	Profile  string `hcl:"profile,optional"`
}

func cargoStaticLib(ctx context.Context, b *blockContext) (extgen.Result, error) {
	m := b.in.modules.Cargo
	if m == nil {
		return nil, notConfigured("cargo")
	}
	var args staticLibBlock
	if err := b.decode(&args); err != nil {
		return nil, err
	}
	if _, ok := b.in.libs[b.label]; ok {
		return nil, fmt.Errorf("static library %q already declared", b.label)
	}

	pkg := args.Package
	if pkg == "" {
		pkg = b.label
	}
	lib, err := m.StaticLib(ctx, cargo.StaticLibArgs{
		Dir:      b.dir,
		Manifest: args.Manifest,
		Package:  pkg,
		Profile:  args.Profile,
	})
	if err != nil {
		return nil, err
	}
	b.in.libs[b.label] = lib
	return lib, nil
}

type executableBlock struct {
	Manifest string   `hcl:"manifest"`
	Bin      string   `hcl:"bin,optional"`
	Profile  string   `hcl:"profile,optional"`
	Link     []string `hcl:"link,optional"`
}

func cargoExecutable(ctx context.Context, b *blockContext) (extgen.Result, error) {
	m := b.in.modules.Cargo
	if m == nil {
		return nil, notConfigured("cargo")
	}
	var args executableBlock
	if err := b.decode(&args); err != nil {
		return nil, err
	}

	var link []*cargo.StaticLib
	for _, name := range args.Link {
		lib, ok := b.in.libs[name]
		if !ok {
			return nil, fmt.Errorf("link: no cargo_staticlib %q has been declared", name)
		}
		link = append(link, lib)
	}

	bin := args.Bin
	if bin == "" {
		bin = b.label
	}
	return m.Executable(ctx, cargo.ExecutableArgs{
		Dir:      b.dir,
		Manifest: args.Manifest,
		Bin:      bin,
		Profile:  args.Profile,
		Link:     link,
	})
}

type cxxBlock struct {
	Bridge hcl.Expression `hcl:"bridge"`
}

func cxxGenerate(ctx context.Context, b *blockContext) (extgen.Result, error) {
	m := b.in.modules.Cxx
	if m == nil {
		return nil, notConfigured("cxx")
	}
	var args cxxBlock
	if err := b.decode(&args); err != nil {
		return nil, err
	}
	bridge, err := b.path("bridge", args.Bridge)
	if err != nil {
		return nil, err
	}
	return m.Generate(ctx, cxx.GenerateArgs{Dir: b.dir, Name: b.label, Bridge: bridge})
}

type cxxrtlBlock struct {
	Source hcl.Expression `hcl:"source"`
	Script string         `hcl:"script,optional"`
}

func cxxrtlGenerate(ctx context.Context, b *blockContext) (extgen.Result, error) {
	m := b.in.modules.CXXRTL
	if m == nil {
		return nil, notConfigured("cxxrtl")
	}
	var args cxxrtlBlock
	if err := b.decode(&args); err != nil {
		return nil, err
	}
	src, err := b.path("source", args.Source)
	if err != nil {
		return nil, err
	}
	return m.Generate(ctx, cxxrtl.GenerateArgs{Dir: b.dir, Name: b.label, Source: src, Script: args.Script})
}

type simBlock struct {
	Design    hcl.Expression `hcl:"design"`
	Data      hcl.Expression `hcl:"data"`
	Interface hcl.Expression `hcl:"interface"`
	VCD       bool           `hcl:"vcd,optional"`
}

func cxxrtlSim(ctx context.Context, b *blockContext) (extgen.Result, error) {
	m := b.in.modules.CXXRTL
	if m == nil {
		return nil, notConfigured("cxxrtl")
	}
	var args simBlock
	if err := b.decode(&args); err != nil {
		return nil, err
	}
	design, err := b.path("design", args.Design)
	if err != nil {
		return nil, err
	}
	data, err := b.path("data", args.Data)
	if err != nil {
		return nil, err
	}
	iface, err := b.path("interface", args.Interface)
	if err != nil {
		return nil, err
	}
	return m.Sim(ctx, cxxrtl.SimArgs{
		Dir:       b.dir,
		Name:      b.label,
		Design:    design,
		Data:      data,
		Interface: iface,
		VCD:       args.VCD,
	})
}

type filamentBlock struct {
	Source hcl.Expression `hcl:"source"`
	Lib    hcl.Expression `hcl:"lib"`
}

func filamentGenerate(ctx context.Context, b *blockContext) (extgen.Result, error) {
	m := b.in.modules.Filament
	if m == nil {
		return nil, notConfigured("filament")
	}
	var args filamentBlock
	if err := b.decode(&args); err != nil {
		return nil, err
	}
	src, err := b.path("source", args.Source)
	if err != nil {
		return nil, err
	}
	lib, err := b.path("lib", args.Lib)
	if err != nil {
		return nil, err
	}
	return m.Generate(ctx, filament.GenerateArgs{Dir: b.dir, Name: b.label, Source: src, Lib: lib})
}

type rsrtlBlock struct {
	Source hcl.Expression `hcl:"source"`
	Script string         `hcl:"script,optional"`
	Tcl    bool           `hcl:"tcl,optional"`
	Header bool           `hcl:"header,optional"`
}

func rsrtlGenerate(ctx context.Context, b *blockContext) (extgen.Result, error) {
	m := b.in.modules.RSRTL
	if m == nil {
		return nil, notConfigured("rsrtl")
	}
	var args rsrtlBlock
	if err := b.decode(&args); err != nil {
		return nil, err
	}
	src, err := b.path("source", args.Source)
	if err != nil {
		return nil, err
	}
	return m.Generate(ctx, rsrtl.GenerateArgs{
		Dir:    b.dir,
		Name:   b.label,
		Source: src,
		Script: args.Script,
		Tcl:    args.Tcl,
		Header: args.Header,
	})
}

type commandBlock struct {
	Program     string            `hcl:"program"`
	Args        hcl.Expression    `hcl:"args,optional"`
	Inputs      hcl.Expression    `hcl:"inputs,optional"`
	Outputs     []string          `hcl:"outputs,optional"`
	Depfile     string            `hcl:"depfile,optional"`
	Capture     bool              `hcl:"capture,optional"`
	DependFiles hcl.Expression    `hcl:"depend_files,optional"`
	Depends     []string          `hcl:"depends,optional"`
	Env         map[string]string `hcl:"env,optional"`
	Description string            `hcl:"description,optional"`
	SideEffect  bool              `hcl:"side_effect,optional"`
}

// customCommand declares a node running an arbitrary program.
func customCommand(ctx context.Context, b *blockContext) (extgen.Result, error) {
	tools := b.in.modules.Tools
	if tools == nil {
		return nil, notConfigured("command")
	}
	var args commandBlock
	if err := b.decode(&args); err != nil {
		return nil, err
	}

	argv, err := value(b.evalCtx, args.Args)
	if err != nil {
		return nil, err
	}
	cmdArgs, err := b.in.args(b.dir, argv)
	if err != nil {
		return nil, fmt.Errorf("args: %w", err)
	}
	inputs, err := b.paths("inputs", args.Inputs)
	if err != nil {
		return nil, err
	}
	dependFiles, err := b.paths("depend_files", args.DependFiles)
	if err != nil {
		return nil, err
	}

	var depends []*extgen.Node
	for _, name := range args.Depends {
		n := b.in.graph.Lookup(name)
		if n == nil {
			return nil, fmt.Errorf("depends: no node named %q has been declared", name)
		}
		depends = append(depends, n)
	}

	tool, err := tools.Get(ctx, args.Program)
	if err != nil {
		return nil, err
	}

	return b.in.graph.Build(ctx, extgen.NodeParams{
		Name:         b.label,
		Dir:          b.dir,
		Description:  args.Description,
		Command:      extgen.NewCommand(append([]extgen.Arg{extgen.ToolArg(tool)}, cmdArgs...)...),
		Inputs:       inputs,
		Outputs:      args.Outputs,
		Depfile:      args.Depfile,
		Capture:      args.Capture,
		ExtraDepends: depends,
		DependFiles:  dependFiles,
		Env:          args.Env,
		SideEffect:   args.SideEffect,
	})
}

// subdir evaluates the description of a subdirectory.
func subdir(ctx context.Context, b *blockContext) (extgen.Result, error) {
	if err := b.decode(&struct{}{}); err != nil {
		return nil, err
	}
	rel := filepath.Clean(b.label)
	if filepath.IsAbs(rel) || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, errors.New("must name a subdirectory")
	}
	if err := b.in.Run(ctx, filepath.Join(b.dir, rel)); err != nil {
		return nil, err
	}
	return noNodes{}, nil
}
