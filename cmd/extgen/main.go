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

// extgen reads HCL build descriptions and writes a Ninja manifest that runs the
// declared external tools (cargo, cxxbridge, yosys, filament, ...).
//
// Usage:
//
//   extgen [-c config.yaml] [-b builddir] [-o build.ninja] [-d depfile]
//          [-log-level level] [-log-format text|json] [description]
package main

import (
	"github.com/google/extgen/bootstrap"
)

func main() {
	bootstrap.Main()
}
