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

// Package cargo builds Rust packages with cargo.  StaticLib produces a static
// library for linking into non-Rust targets; Executable builds a binary,
// optionally linking static libraries produced by StaticLib.
package cargo

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/extgen"
	"github.com/google/extgen/pathtools"
)

const (
	Program        = "cargo"
	DefaultProfile = "dev"
)

type Module struct {
	graph     *extgen.Graph
	tools     *extgen.ToolSet
	manifests ManifestLookup
}

func New(graph *extgen.Graph, locator extgen.ToolLocator, manifests ManifestLookup) *Module {
	return &Module{
		graph:     graph,
		tools:     extgen.NewToolSet(locator),
		manifests: manifests,
	}
}

// A StaticLib is the result of Module.StaticLib.
type StaticLib struct {
	*extgen.Node
	LibName string // library name as passed to the linker
	Profile string
}

// Archive returns a reference to the built archive.
func (s *StaticLib) Archive() extgen.GeneratedPath {
	return extgen.GeneratedPath{Node: s.Node, Index: 0}
}

type StaticLibArgs struct {
	// Dir is the subdirectory the call is made from.
	Dir string
	// Manifest is the package directory, or its Cargo.toml, relative to Dir.
	Manifest string
	// Package selects the package within the manifest's workspace.
	Package string
	Profile string
}

// StaticLib builds the library target of Package.  The target must list
// "staticlib" among its crate types.
func (m *Module) StaticLib(ctx context.Context, args StaticLibArgs) (*StaticLib, error) {
	const op = "cargo.staticlib"
	if args.Package == "" {
		return nil, extgen.Validationf(op, "package name is required")
	}
	profile := args.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	manifests, err := m.load(op, args.Dir, args.Manifest)
	if err != nil {
		return nil, err
	}
	pkg, ok := manifests[args.Package]
	if !ok {
		return nil, extgen.Validationf(op, "package %q not found in %s", args.Package, manifestDir(args.Dir, args.Manifest))
	}
	if pkg.Lib == nil {
		return nil, extgen.Validationf(op, "package %q has no library target", args.Package)
	}
	if !pkg.Lib.HasCrateType("staticlib") {
		return nil, extgen.Validationf(op, "library %q is not a staticlib (crate-type %v)", pkg.Lib.Name, pkg.Lib.CrateType)
	}

	cargo, err := m.tools.Get(ctx, Program)
	if err != nil {
		return nil, err
	}

	name := pkg.Lib.Name
	target := name + "_target"
	archive := extgen.ProfilePath(target, profile, "lib"+name+".a")
	node, err := m.graph.Build(ctx, extgen.NodeParams{
		Name:        name + "_cargo_build",
		Dir:         args.Dir,
		Description: fmt.Sprintf("Building Rust static library %s", name),
		Command: extgen.NewCommand(
			extgen.ToolArg(cargo),
			extgen.Text("build"),
			extgen.Text("--lib"),
			extgen.Text("--manifest-path"), extgen.Text("@INPUT@"),
			extgen.Text("--target-dir"), extgen.Text(filepath.Join(args.Dir, target)),
			extgen.Text("--profile"), extgen.Text(profile),
		),
		Inputs:  []extgen.PathSpec{extgen.NewSourcePath(pkg.Dir, ManifestFile)},
		Outputs: []string{archive},
		Depfile: pathtools.ReplaceExtension(archive, "d"),
	})
	if err != nil {
		return nil, err
	}

	return &StaticLib{Node: node, LibName: name, Profile: profile}, nil
}

type ExecutableArgs struct {
	Dir      string
	Manifest string
	// Bin is the binary target to build; the first package, in name order,
	// declaring it is used.
	Bin     string
	Profile string
	Link    []*StaticLib
}

// Executable builds binary target Bin.  Each linked library adds its
// directory to the search path and is linked statically through RUSTFLAGS,
// and the binary is not built before the libraries are.
func (m *Module) Executable(ctx context.Context, args ExecutableArgs) (*extgen.Node, error) {
	const op = "cargo.executable"
	if args.Bin == "" {
		return nil, extgen.Validationf(op, "binary name is required")
	}
	profile := args.Profile
	if profile == "" {
		profile = DefaultProfile
	}
	for i, lib := range args.Link {
		if lib == nil || lib.Node == nil {
			return nil, extgen.Validationf(op, "link library %d is not a static library", i)
		}
	}

	manifests, err := m.load(op, args.Dir, args.Manifest)
	if err != nil {
		return nil, err
	}
	pkg := findBin(manifests, args.Bin)
	if pkg == nil {
		return nil, extgen.Validationf(op, "binary target %q not found in %s", args.Bin, manifestDir(args.Dir, args.Manifest))
	}

	cargo, err := m.tools.Get(ctx, Program)
	if err != nil {
		return nil, err
	}

	target := args.Bin + "_target"
	params := extgen.NodeParams{
		Name:        args.Bin + "_cargo_build",
		Dir:         args.Dir,
		Description: fmt.Sprintf("Building Rust executable %s", args.Bin),
		Command: extgen.NewCommand(
			extgen.ToolArg(cargo),
			extgen.Text("build"),
			extgen.Text("--bin"), extgen.Text(args.Bin),
			extgen.Text("--manifest-path"), extgen.Text("@INPUT@"),
			extgen.Text("--target-dir"), extgen.Text(filepath.Join(args.Dir, target)),
			extgen.Text("--profile"), extgen.Text(profile),
		),
		Inputs:  []extgen.PathSpec{extgen.NewSourcePath(pkg.Dir, ManifestFile)},
		Outputs: []string{extgen.ProfilePath(target, profile, args.Bin)},
		Depfile: extgen.ProfilePath(target, profile, args.Bin+".d"),
	}

	if flags := m.linkFlags(args.Link); flags != "" {
		params.Env = map[string]string{"RUSTFLAGS": flags}
	}
	for _, lib := range args.Link {
		params.ExtraDepends = append(params.ExtraDepends, lib.Node)
	}

	return m.graph.Build(ctx, params)
}

// linkFlags returns the rustc flags that link libs, or "" if there are none.
func (m *Module) linkFlags(libs []*StaticLib) string {
	var flags []string
	for _, lib := range libs {
		dir := m.graph.Paths().AbsBuildPath(filepath.Dir(lib.Outputs()[0]))
		flags = append(flags, "-L", dir, "-l", "static="+lib.LibName)
	}
	return strings.Join(flags, " ")
}

func (m *Module) load(op, dir, manifest string) (map[string]*Manifest, error) {
	if m.manifests == nil {
		return nil, extgen.Validationf(op, "no manifest lookup configured")
	}
	manifests, err := m.manifests.LoadManifests(manifestDir(dir, manifest))
	if err != nil {
		return nil, &extgen.ValidationError{Op: op, Err: err}
	}
	return manifests, nil
}

// manifestDir returns the source-relative package directory named by
// manifest, which may also name the Cargo.toml file itself.
func manifestDir(dir, manifest string) string {
	p := filepath.Join(dir, manifest)
	if filepath.Base(p) == ManifestFile {
		p = filepath.Dir(p)
	}
	return p
}

func findBin(manifests map[string]*Manifest, bin string) *Manifest {
	names := make([]string, 0, len(manifests))
	for name := range manifests {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, b := range manifests[name].Bins {
			if b.Name == bin {
				return manifests[name]
			}
		}
	}
	return nil
}
