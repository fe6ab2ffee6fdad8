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

// Package deptools writes Makefile-style dependency files that Ninja reads
// through a build statement's depfile variable.
package deptools

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var depEscaper = strings.NewReplacer(
	" ", `\ `,
	"#", `\#`,
	"$", "$$")

// WriteDepFile creates filename and records that target depends on deps.
func WriteDepFile(filename, target string, deps []string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteDeps(f, target, deps)
}

// WriteDeps writes the dependency rule for target to w.  Duplicate deps are
// written once, in first-seen order.
func WriteDeps(w io.Writer, target string, deps []string) error {
	seen := make(map[string]bool, len(deps))
	escaped := make([]string, 0, len(deps))
	for _, dep := range deps {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		escaped = append(escaped, depEscaper.Replace(dep))
	}

	_, err := fmt.Fprintf(w, "%s: \\\n %s\n", depEscaper.Replace(target),
		strings.Join(escaped, " \\\n "))
	return err
}
