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
	"path/filepath"
)

// A PathContext locates the source and build trees of one graph-construction
// pass.  Every command runs with the build root as its working directory, so
// all rendered paths are relative to BuildDir.
type PathContext struct {
	SourceDir string
	BuildDir  string
}

// BuildToSource returns the path of the source root relative to the build
// root.
func (p PathContext) BuildToSource() string {
	return relPath(p.BuildDir, p.SourceDir)
}

// SourceToBuild returns the path of the build root relative to the source
// root.
func (p PathContext) SourceToBuild() string {
	return relPath(p.SourceDir, p.BuildDir)
}

// AbsBuildPath returns the absolute form of a build-relative path.
func (p PathContext) AbsBuildPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	root, err := filepath.Abs(p.BuildDir)
	if err != nil {
		root = p.BuildDir
	}
	return filepath.Join(root, rel)
}

func relPath(from, to string) string {
	absFrom, err := filepath.Abs(from)
	if err != nil {
		return filepath.Clean(to)
	}
	absTo, err := filepath.Abs(to)
	if err != nil {
		return filepath.Clean(to)
	}
	rel, err := filepath.Rel(absFrom, absTo)
	if err != nil {
		return absTo
	}
	return rel
}

// ProfileDir maps a build profile to the name of the directory the packaging
// tool writes its artifacts to.  Only the exact string "dev" selects "debug";
// every other profile builds into "release".
func ProfileDir(profile string) string {
	if profile == "dev" {
		return "debug"
	}
	return "release"
}

// ProfilePath joins targetDir, the directory for profile, and elem.
func ProfilePath(targetDir, profile string, elem ...string) string {
	return filepath.Join(append([]string{targetDir, ProfileDir(profile)}, elem...)...)
}

// A PathSpec names a file used by a node: a file in the source tree, a file in
// the build tree, or one output of another node.  The set of implementations is
// closed; see SourcePath, BuiltPath and GeneratedPath.
type PathSpec interface {
	// BuildRel returns the path relative to the build root.
	BuildRel(p PathContext) string
	// SourceRel returns the path relative to the source root.
	SourceRel(p PathContext) string
	String() string

	isPathSpec()
}

// A SourcePath is a file in the source tree.  Dir is relative to the source
// root.
type SourcePath struct {
	Dir  string
	Name string
}

// NewSourcePath returns the SourcePath for name as written in a description
// located in subdir.  An absolute name refers to a file outside the source
// tree and is rendered unchanged.
func NewSourcePath(subdir, name string) SourcePath {
	if filepath.IsAbs(name) {
		return SourcePath{Name: filepath.Clean(name)}
	}
	return SourcePath{Dir: subdir, Name: name}
}

func (s SourcePath) SourceRel(PathContext) string {
	return filepath.Join(s.Dir, s.Name)
}

func (s SourcePath) BuildRel(p PathContext) string {
	if filepath.IsAbs(s.Name) {
		return s.Name
	}
	return filepath.Join(p.BuildToSource(), s.Dir, s.Name)
}

func (s SourcePath) String() string { return filepath.Join(s.Dir, s.Name) }

func (SourcePath) isPathSpec() {}

// A BuiltPath is a file in the build tree that is not tied to a particular
// node.  Dir is relative to the build root.
type BuiltPath struct {
	Dir  string
	Name string
}

// NewBuiltPath splits a build-relative path into a BuiltPath.
func NewBuiltPath(rel string) BuiltPath {
	dir, name := filepath.Split(filepath.Clean(rel))
	return BuiltPath{Dir: filepath.Clean(dir), Name: name}
}

func (b BuiltPath) BuildRel(PathContext) string {
	return filepath.Join(b.Dir, b.Name)
}

func (b BuiltPath) SourceRel(p PathContext) string {
	return filepath.Join(p.SourceToBuild(), b.Dir, b.Name)
}

func (b BuiltPath) String() string { return filepath.Join(b.Dir, b.Name) }

func (BuiltPath) isPathSpec() {}

// A GeneratedPath is the Index'th declared output of Node.  Values are
// obtained from Node.Output, which checks the index.
type GeneratedPath struct {
	Node  *Node
	Index int
}

func (g GeneratedPath) BuildRel(PathContext) string {
	return g.Node.outputs[g.Index]
}

func (g GeneratedPath) SourceRel(p PathContext) string {
	return filepath.Join(p.SourceToBuild(), g.Node.outputs[g.Index])
}

func (g GeneratedPath) String() string {
	return fmt.Sprintf("%s[%d]", g.Node.name, g.Index)
}

func (GeneratedPath) isPathSpec() {}

// BuiltRelative rewrites a GeneratedPath into the equivalent BuiltPath so it
// can be passed as a plain file argument.  Other paths are returned unchanged.
func BuiltRelative(p PathSpec) PathSpec {
	if g, ok := p.(GeneratedPath); ok {
		return NewBuiltPath(g.Node.outputs[g.Index])
	}
	return p
}
