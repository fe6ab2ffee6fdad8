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

package rsrtl

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/extgen"
	"github.com/google/extgen/yosys"
)

var testPaths = extgen.PathContext{SourceDir: "/src", BuildDir: "/src/out"}

func newModule() *Module {
	locator := extgen.StaticLocator{yosys.Program: "/usr/bin/yosys"}
	return New(extgen.NewGraph(testPaths), yosys.New(locator, nil))
}

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name        string
		args        GenerateArgs
		command     []string
		outputs     []string
		dependFiles []string
	}{
		{
			name: "default script",
			args: GenerateArgs{Dir: "hw", Name: "top", Source: extgen.NewSourcePath("hw", "top.v")},
			command: []string{"/usr/bin/yosys", "-q", "-p",
				"hierarchy -top main; write_cxxrtl -print-output std::cerr hw/top.cc", "../hw/top.v"},
			outputs: []string{"hw/top.cc"},
		},
		{
			name: "header",
			args: GenerateArgs{Dir: "hw", Name: "top", Source: extgen.NewSourcePath("hw", "top.v"), Header: true},
			command: []string{"/usr/bin/yosys", "-q", "-p",
				"hierarchy -top main; write_cxxrtl -print-output std::cerr hw/top.cc", "../hw/top.v"},
			outputs: []string{"hw/top.cc", "hw/top.h"},
		},
		{
			name:        "tcl suffix",
			args:        GenerateArgs{Dir: "hw", Name: "top", Source: extgen.NewSourcePath("hw", "top.v"), Script: "gen.tcl"},
			command:     []string{"/usr/bin/yosys", "-q", "-p", "tcl ../hw/gen.tcl hw/top.cc ../hw/top.v"},
			outputs:     []string{"hw/top.cc"},
			dependFiles: []string{"../hw/gen.tcl"},
		},
		{
			name: "tcl flag",
			args: GenerateArgs{Dir: "hw", Name: "top", Source: extgen.NewSourcePath("hw", "top.v"),
				Script: "scripts/gen", Tcl: true, Header: true},
			command:     []string{"/usr/bin/yosys", "-q", "-p", "tcl ../hw/scripts/gen hw/top.cc ../hw/top.v"},
			outputs:     []string{"hw/top.cc", "hw/top.h"},
			dependFiles: []string{"../hw/scripts/gen"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := newModule().Generate(context.Background(), tc.args)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(tc.command, n.Command()); diff != "" {
				t.Errorf("command mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.outputs, n.Outputs()); diff != "" {
				t.Errorf("outputs mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.dependFiles, n.DependFiles()); diff != "" {
				t.Errorf("depend files mismatch (-want +got):\n%s", diff)
			}
			if n.Capture() {
				t.Errorf("yosys writes its outputs itself")
			}
		})
	}
}

func TestGenerateTclNeedsScriptFile(t *testing.T) {
	testCases := []struct {
		name   string
		script string
	}{
		{"no script", ""},
		{"inline script", "read_verilog @INPUT@; write_cxxrtl @OUTPUT@"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newModule()
			_, err := m.Generate(context.Background(), GenerateArgs{
				Dir:    "hw",
				Name:   "top",
				Source: extgen.NewSourcePath("hw", "top.v"),
				Script: tc.script,
				Tcl:    true,
			})
			var validationErr *extgen.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(m.graph.Nodes()) != 0 {
				t.Errorf("node was registered despite the error")
			}
		})
	}
}
