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

// The bootstrap package ties a graph-construction pass together: it reads the
// configuration, evaluates the top-level build description and every
// description it includes, and writes the resulting graph as a Ninja
// manifest.
//
// A dependency file naming every description, manifest and configuration file
// that was read can be written next to the manifest, so that Ninja regenerates
// the manifest when any of them changes:
//
//   extgen -b out -o out/build.ninja -d out/build.ninja.d src/build.hcl
//
// The primary entry point is Main, which parses the command line; Run does
// the work for an already loaded Config.
package bootstrap
