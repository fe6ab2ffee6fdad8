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
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/extgen/pathtools"
)

var workspaceFiles = map[string][]byte{
	"/src/ws/Cargo.toml": []byte(`
[workspace]
members = ["crates/foo-sys", "app"]
`),
	"/src/ws/crates/foo-sys/Cargo.toml": []byte(`
[package]
name = "foo-sys"
version = "0.1.0"

[lib]
crate-type = ["staticlib", "rlib"]
`),
	"/src/ws/crates/foo-sys/src/lib.rs": nil,
	"/src/ws/app/Cargo.toml": []byte(`
[package]
name = "app"

[[bin]]
name = "app-cli"
path = "src/cli.rs"
`),
	"/src/ws/app/src/lib.rs":  nil,
	"/src/ws/app/src/main.rs": nil,
}

func TestLoadWorkspace(t *testing.T) {
	l := NewTOMLLoader(pathtools.MockFs(workspaceFiles), "/src")

	got, err := l.LoadManifests("ws")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := map[string]*Manifest{
		"foo-sys": {
			Package: "foo-sys",
			Dir:     "ws/crates/foo-sys",
			Lib:     &Target{Name: "foo_sys", Path: "src/lib.rs", CrateType: []string{"staticlib", "rlib"}},
		},
		"app": {
			Package: "app",
			Dir:     "ws/app",
			Lib:     &Target{Name: "app", Path: "src/lib.rs", CrateType: []string{"lib"}},
			Bins:    []Target{{Name: "app-cli", Path: "src/cli.rs", CrateType: []string{"bin"}}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifests mismatch (-want +got):\n%s", diff)
	}

	wantFiles := []string{
		"/src/ws/Cargo.toml",
		"/src/ws/app/Cargo.toml",
		"/src/ws/crates/foo-sys/Cargo.toml",
	}
	if diff := cmp.Diff(wantFiles, l.Files()); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefaultBin(t *testing.T) {
	l := NewTOMLLoader(pathtools.MockFs(map[string][]byte{
		"hello/Cargo.toml":    []byte("[package]\nname = \"hello\"\n"),
		"hello/src/main.rs":   nil,
		"hello/src/helper.rs": nil,
	}), "")

	got, err := l.LoadManifests("hello")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := map[string]*Manifest{
		"hello": {
			Package: "hello",
			Dir:     "hello",
			Bins:    []Target{{Name: "hello", Path: "src/main.rs", CrateType: []string{"bin"}}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifests mismatch (-want +got):\n%s", diff)
	}
	if got["hello"].Path() != "hello/Cargo.toml" {
		t.Errorf("unexpected manifest path %q", got["hello"].Path())
	}
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string][]byte
	}{
		{"missing manifest", map[string][]byte{"other/Cargo.toml": nil}},
		{"invalid toml", map[string][]byte{"p/Cargo.toml": []byte("[package\nname = 1")}},
		{"unnamed package", map[string][]byte{"p/Cargo.toml": []byte("[package]\nversion = \"1\"")}},
		{"unnamed bin", map[string][]byte{"p/Cargo.toml": []byte("[package]\nname = \"p\"\n[[bin]]\npath = \"x.rs\"")}},
		{"glob member", map[string][]byte{"p/Cargo.toml": []byte("[workspace]\nmembers = [\"crates/*\"]")}},
		{"member cycle", map[string][]byte{"p/Cargo.toml": []byte("[workspace]\nmembers = [\".\"]")}},
		{"duplicate package", map[string][]byte{
			"p/Cargo.toml":   []byte("[workspace]\nmembers = [\"a\", \"b\"]"),
			"p/a/Cargo.toml": []byte("[package]\nname = \"same\""),
			"p/b/Cargo.toml": []byte("[package]\nname = \"same\""),
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTOMLLoader(pathtools.MockFs(tc.files), "").LoadManifests("p")
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := NewTOMLLoader(pathtools.MockFs(nil), "").LoadManifests("p")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}
