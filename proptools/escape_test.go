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

package proptools

import (
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

type escapeTestCase struct {
	name string
	in   string
	out  string
}

var ninjaEscapeTestCase = []escapeTestCase{
	{
		name: "no escaping",
		in:   `test`,
		out:  `test`,
	},
	{
		name: "leading $",
		in:   `$test`,
		out:  `$$test`,
	},
	{
		name: "leading and trailing $",
		in:   `$test$`,
		out:  `$$test$$`,
	},
}

var shellEscapeTestCase = []escapeTestCase{
	{
		name: "no escaping",
		in:   `test`,
		out:  `test`,
	},
	{
		name: "path with placeholder-like text",
		in:   `out/top@v1.cc`,
		out:  `out/top@v1.cc`,
	},
	{
		name: "leading $",
		in:   `$test`,
		out:  `'$test'`,
	},
	{
		name: "single quote",
		in:   `'`,
		out:  `''\'''`,
	},
	{
		name: "double quote",
		in:   `""`,
		out:  `'""'`,
	},
	{
		name: "yosys script",
		in:   `hierarchy -top main; write_cxxrtl out/top.cc`,
		out:  `'hierarchy -top main; write_cxxrtl out/top.cc'`,
	},
}

var shellEscapeIncludingSpacesTestCase = []escapeTestCase{
	{
		name: "no escaping",
		in:   `test`,
		out:  `test`,
	},
	{
		name: "spacing",
		in:   `-L /out/lib -l static=foo`,
		out:  `'-L /out/lib -l static=foo'`,
	},
	{
		name: "single quote",
		in:   `'arg'`,
		out:  `''\''arg'\'''`,
	},
	{
		name: "empty",
		in:   ``,
		out:  `''`,
	},
}

func TestNinjaEscaping(t *testing.T) {
	for _, testCase := range ninjaEscapeTestCase {
		got := NinjaEscape(testCase.in)
		if got != testCase.out {
			t.Errorf("%s: expected `%s` got `%s`", testCase.name, testCase.out, got)
		}
	}
}

func TestShellEscaping(t *testing.T) {
	for _, testCase := range shellEscapeTestCase {
		got := ShellEscape(testCase.in)
		if got != testCase.out {
			t.Errorf("%s: expected `%s` got `%s`", testCase.name, testCase.out, got)
		}
	}
}

func TestShellEscapeIncludingSpaces(t *testing.T) {
	for _, testCase := range shellEscapeIncludingSpacesTestCase {
		got := ShellEscapeIncludingSpaces(testCase.in)
		if got != testCase.out {
			t.Errorf("%s: expected `%s` got `%s`", testCase.name, testCase.out, got)
		}
	}
}

func TestNinjaAndShellJoin(t *testing.T) {
	got := NinjaAndShellJoin([]string{"yosys", "-p", "write $out", "a b.v"})
	want := `yosys -p 'write $$out' 'a b.v'`
	if got != want {
		t.Errorf("expected `%s` got `%s`", want, got)
	}
}

func TestExternalShellJoin(t *testing.T) {
	if testing.Short() {
		return
	}
	var argv []string
	for _, testCase := range shellEscapeIncludingSpacesTestCase {
		argv = append(argv, testCase.in)
	}
	for _, testCase := range shellEscapeTestCase {
		argv = append(argv, testCase.in)
	}

	cmd := `printf '%s\n' ` + ShellJoin(argv)
	got, err := exec.Command("/bin/sh", "-c", cmd).Output()
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	if !reflect.DeepEqual(lines, argv) {
		t.Errorf("expected %q got %q", argv, lines)
	}
}
