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

package cargo

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/google/extgen/pathtools"
)

const ManifestFile = "Cargo.toml"

// A Target is one library or binary target of a package.
type Target struct {
	Name      string
	Path      string
	CrateType []string
}

// HasCrateType reports whether t is built as crate type kind.
func (t *Target) HasCrateType(kind string) bool {
	for _, c := range t.CrateType {
		if c == kind {
			return true
		}
	}
	return false
}

// A Manifest describes one package.  Dir is the package directory relative to
// the source root.
type Manifest struct {
	Package string
	Dir     string
	Lib     *Target
	Bins    []Target
}

// Path returns the manifest file relative to the source root.
func (m *Manifest) Path() string {
	return filepath.Join(m.Dir, ManifestFile)
}

// A ManifestLookup loads the manifests of the package or workspace rooted at
// dir, keyed by package name.  dir is relative to the source root.
type ManifestLookup interface {
	LoadManifests(dir string) (map[string]*Manifest, error)
}

type rawTarget struct {
	Name      string   `toml:"name"`
	Path      string   `toml:"path"`
	CrateType []string `toml:"crate-type"`
}

type rawManifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib       *rawTarget  `toml:"lib"`
	Bin       []rawTarget `toml:"bin"`
	Workspace *struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// A TOMLLoader reads Cargo.toml files from FS.  Workspace members are loaded
// recursively; member globs are not supported.
type TOMLLoader struct {
	FS        pathtools.FileSystem
	SourceDir string

	mu    sync.Mutex
	files map[string]bool
}

func NewTOMLLoader(fs pathtools.FileSystem, sourceDir string) *TOMLLoader {
	return &TOMLLoader{FS: fs, SourceDir: sourceDir}
}

func (l *TOMLLoader) LoadManifests(dir string) (map[string]*Manifest, error) {
	manifests := make(map[string]*Manifest)
	if err := l.load(filepath.Clean(dir), manifests, nil); err != nil {
		return nil, err
	}
	return manifests, nil
}

// Files returns every manifest file read so far, sorted.
func (l *TOMLLoader) Files() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	files := make([]string, 0, len(l.files))
	for f := range l.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

func (l *TOMLLoader) read(file string) ([]byte, error) {
	l.mu.Lock()
	if l.files == nil {
		l.files = make(map[string]bool)
	}
	l.files[file] = true
	l.mu.Unlock()

	return pathtools.ReadFile(l.FS, file)
}

func (l *TOMLLoader) load(dir string, manifests map[string]*Manifest, stack []string) error {
	for _, d := range stack {
		if d == dir {
			return fmt.Errorf("workspace member cycle: %s", strings.Join(append(stack, dir), " -> "))
		}
	}

	file := filepath.Join(l.SourceDir, dir, ManifestFile)
	data, err := l.read(file)
	if err != nil {
		return err
	}

	var raw rawManifest
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if raw.Package != nil {
		m, err := l.manifest(dir, &raw)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if prev, ok := manifests[m.Package]; ok {
			return fmt.Errorf("%s: package %q already defined in %s", file, m.Package, prev.Path())
		}
		manifests[m.Package] = m
	}

	if raw.Workspace != nil {
		for _, member := range raw.Workspace.Members {
			if strings.ContainsAny(member, "*?[") {
				return fmt.Errorf("%s: workspace member %q: globs are not supported", file, member)
			}
			if err := l.load(filepath.Join(dir, member), manifests, append(stack, dir)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *TOMLLoader) manifest(dir string, raw *rawManifest) (*Manifest, error) {
	pkg := raw.Package.Name
	if pkg == "" {
		return nil, fmt.Errorf("package has no name")
	}
	crateName := strings.ReplaceAll(pkg, "-", "_")

	m := &Manifest{Package: pkg, Dir: dir}

	if raw.Lib != nil {
		m.Lib = &Target{Name: raw.Lib.Name, Path: raw.Lib.Path, CrateType: raw.Lib.CrateType}
	} else if l.exists(dir, "src", "lib.rs") {
		m.Lib = &Target{}
	}
	if m.Lib != nil {
		if m.Lib.Name == "" {
			m.Lib.Name = crateName
		}
		if m.Lib.Path == "" {
			m.Lib.Path = filepath.Join("src", "lib.rs")
		}
		if len(m.Lib.CrateType) == 0 {
			m.Lib.CrateType = []string{"lib"}
		}
	}

	for _, b := range raw.Bin {
		if b.Name == "" {
			return nil, fmt.Errorf("[[bin]] target without a name")
		}
		m.Bins = append(m.Bins, Target{Name: b.Name, Path: b.Path, CrateType: []string{"bin"}})
	}
	if len(raw.Bin) == 0 && l.exists(dir, "src", "main.rs") {
		m.Bins = append(m.Bins, Target{
			Name:      pkg,
			Path:      filepath.Join("src", "main.rs"),
			CrateType: []string{"bin"},
		})
	}

	return m, nil
}

func (l *TOMLLoader) exists(elem ...string) bool {
	ok, isDir, err := l.FS.Exists(filepath.Join(append([]string{l.SourceDir}, elem...)...))
	return err == nil && ok && !isDir
}
