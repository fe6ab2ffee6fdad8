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
	"strings"
)

// A ValidationError describes an adapter call that was rejected before any
// external process was consulted: a missing or mistyped target, a bad option,
// or node parameters that break a graph invariant.
type ValidationError struct {
	Op  string // the operation that rejected the call, e.g. "cargo.staticlib"
	Err error
}

func (e *ValidationError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validationf returns a *ValidationError for op with a formatted message.
func Validationf(op, format string, args ...interface{}) error {
	return &ValidationError{Op: op, Err: fmt.Errorf(format, args...)}
}

// A ToolResolutionError is returned when a named external program cannot be
// found.
type ToolResolutionError struct {
	Tool string
	Err  error
}

func (e *ToolResolutionError) Error() string {
	return fmt.Sprintf("program %q not found: %s", e.Tool, e.Err)
}

func (e *ToolResolutionError) Unwrap() error { return e.Err }

// An ExternalToolError is returned when a helper program run synchronously
// during graph construction exits unsuccessfully.
type ExternalToolError struct {
	Command []string
	Output  string // captured diagnostic output
	Err     error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s failed: %s", strings.Join(e.Command, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// A TemplateError is returned when a command placeholder references an output
// index, input index or depfile that the node does not declare.
type TemplateError struct {
	Node        string
	Placeholder string
	Err         error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("node %q: placeholder %s: %s", e.Node, e.Placeholder, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// ConflictKind identifies the namespace in which a GraphConflictError occurred.
type ConflictKind int

const (
	NameConflict ConflictKind = iota
	OutputConflict
)

func (k ConflictKind) String() string {
	switch k {
	case NameConflict:
		return "node name"
	case OutputConflict:
		return "output"
	default:
		panic(fmt.Sprintf("unknown conflict kind: %d", k))
	}
}

// A GraphConflictError is returned when a node name or output path has already
// been claimed by another node in the same graph.
type GraphConflictError struct {
	Kind        ConflictKind
	Key         string // the duplicated name or path
	Existing    string // name of the node that claimed Key first
	Conflicting string // name of the node that was rejected
}

func (e *GraphConflictError) Error() string {
	return fmt.Sprintf("duplicate %s %q: claimed by node %q, requested again by node %q",
		e.Kind, e.Key, e.Existing, e.Conflicting)
}
