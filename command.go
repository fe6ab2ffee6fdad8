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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/extgen/pathtools"
)

const eof = -1

type placeholderKind int

const (
	phInput placeholderKind = iota
	phInputN
	phOutput
	phOutputN
	phDepfile
	phBasename
	phOutdir
)

type placeholder struct {
	kind  placeholderKind
	index int
	text  string
}

// A segment is either literal text or a placeholder.
type segment struct {
	lit string
	ph  *placeholder
}

// An Arg is one element of a CommandTemplate.  Args are built with Text,
// ToolArg and PathArg.
type Arg interface {
	String() string
	isArg()
}

type textArg struct {
	raw      string
	segments []segment
}

type toolArg struct {
	tool Tool
}

type pathArg struct {
	path PathSpec
}

func (t textArg) String() string { return t.raw }
func (t toolArg) String() string { return t.tool.Path }
func (p pathArg) String() string { return p.path.String() }

func (textArg) isArg() {}
func (toolArg) isArg() {}
func (pathArg) isArg() {}

// Text returns a literal command argument.  Occurrences of @INPUT@,
// @INPUTn@, @OUTPUT@, @OUTPUTn@, @DEPFILE@, @BASENAME@ and @OUTDIR@ are
// replaced when the command is resolved; any other @NAME@ sequence is kept
// verbatim.
func Text(s string) Arg {
	return parseText(s)
}

// Texts returns one Text argument per string.
func Texts(strs ...string) []Arg {
	args := make([]Arg, len(strs))
	for i, s := range strs {
		args[i] = Text(s)
	}
	return args
}

// ToolArg returns an argument that invokes tool.
func ToolArg(tool Tool) Arg {
	return toolArg{tool}
}

// PathArg returns an argument that renders p relative to the build root.
func PathArg(p PathSpec) Arg {
	return pathArg{p}
}

// A CommandTemplate is an immutable list of arguments, resolved into a
// concrete argument list only when a node is synthesized.
type CommandTemplate struct {
	args []Arg
}

// NewCommand returns a CommandTemplate of args.
func NewCommand(args ...Arg) CommandTemplate {
	return CommandTemplate{args: append([]Arg(nil), args...)}
}

// Append returns a new CommandTemplate with args added at the end.
func (c CommandTemplate) Append(args ...Arg) CommandTemplate {
	n := make([]Arg, 0, len(c.args)+len(args))
	n = append(n, c.args...)
	return CommandTemplate{args: append(n, args...)}
}

func (c CommandTemplate) Len() int { return len(c.args) }

func (c CommandTemplate) String() string {
	strs := make([]string, len(c.args))
	for i, a := range c.args {
		strs[i] = a.String()
	}
	return strings.Join(strs, " ")
}

// Bindings are the values placeholders resolve to.  Inputs, Outputs, Depfile
// and OutDir are relative to the build root.
type Bindings struct {
	Node    string
	Paths   PathContext
	Inputs  []string
	Outputs []string
	Depfile string
	OutDir  string
}

// Resolve returns the concrete argument list for the command.  Resolution does
// not modify the template, so resolving twice with the same bindings yields
// the same list.
func (c CommandTemplate) Resolve(b Bindings) ([]string, error) {
	var argv []string
	for _, arg := range c.args {
		switch a := arg.(type) {
		case toolArg:
			argv = append(argv, a.tool.Path)
		case pathArg:
			argv = append(argv, a.path.BuildRel(b.Paths))
		case textArg:
			if len(a.segments) == 1 && a.segments[0].ph != nil && a.segments[0].ph.kind == phInput {
				argv = append(argv, b.Inputs...)
				continue
			}
			s, err := a.resolve(b)
			if err != nil {
				return nil, err
			}
			argv = append(argv, s)
		default:
			panic(fmt.Errorf("unknown command argument type %T", arg))
		}
	}
	return argv, nil
}

func (t textArg) resolve(b Bindings) (string, error) {
	if len(t.segments) == 1 && t.segments[0].ph == nil {
		return t.segments[0].lit, nil
	}
	sb := &strings.Builder{}
	for _, seg := range t.segments {
		if seg.ph == nil {
			sb.WriteString(seg.lit)
			continue
		}
		v, err := seg.ph.value(b)
		if err != nil {
			return "", &TemplateError{Node: b.Node, Placeholder: seg.ph.text, Err: err}
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

func (p *placeholder) value(b Bindings) (string, error) {
	switch p.kind {
	case phInput:
		return strings.Join(b.Inputs, " "), nil
	case phInputN:
		if p.index >= len(b.Inputs) {
			return "", fmt.Errorf("index %d out of range, node has %d inputs", p.index, len(b.Inputs))
		}
		return b.Inputs[p.index], nil
	case phOutput, phOutputN:
		if p.index >= len(b.Outputs) {
			return "", fmt.Errorf("index %d out of range, node has %d outputs", p.index, len(b.Outputs))
		}
		return b.Outputs[p.index], nil
	case phDepfile:
		if b.Depfile == "" {
			return "", errors.New("node declares no depfile")
		}
		return b.Depfile, nil
	case phBasename:
		if len(b.Inputs) != 1 {
			return "", fmt.Errorf("requires exactly one input, node has %d", len(b.Inputs))
		}
		return pathtools.Stem(b.Inputs[0]), nil
	case phOutdir:
		return b.OutDir, nil
	default:
		panic(fmt.Sprintf("unknown placeholder kind: %d", p.kind))
	}
}

type parseState struct {
	str      string
	litStart int
	phStart  int
	result   *textArg
}

func (ps *parseState) pushLiteral(s string) {
	if s == "" {
		return
	}
	ps.result.segments = append(ps.result.segments, segment{lit: s})
}

func (ps *parseState) pushPlaceholder(p *placeholder) {
	ps.result.segments = append(ps.result.segments, segment{ph: p})
}

type stateFunc func(*parseState, int, rune) stateFunc

func parseText(str string) textArg {
	result := &textArg{raw: str}
	if strings.IndexByte(str, '@') == -1 {
		result.segments = []segment{{lit: str}}
		return *result
	}

	state := &parseState{str: str, result: result}
	fn := parseLiteralState
	for i := 0; i < len(str); i++ {
		fn = fn(state, i, rune(str[i]))
	}
	fn(state, len(str), eof)

	return *result
}

func parseLiteralState(state *parseState, i int, r rune) stateFunc {
	switch r {
	case '@':
		state.phStart = i + 1
		return parsePlaceholderState
	case eof:
		state.pushLiteral(state.str[state.litStart:i])
		return nil
	default:
		return parseLiteralState
	}
}

func parsePlaceholderState(state *parseState, i int, r rune) stateFunc {
	switch {
	case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return parsePlaceholderState

	case r == '@':
		if p := lookupPlaceholder(state.str[state.phStart:i]); p != nil {
			state.pushLiteral(state.str[state.litStart : state.phStart-1])
			state.pushPlaceholder(p)
			state.litStart = i + 1
			return parseLiteralState
		}
		// Not a placeholder; this '@' may open the next one.
		state.phStart = i + 1
		return parsePlaceholderState

	case r == eof:
		state.pushLiteral(state.str[state.litStart:i])
		return nil

	default:
		return parseLiteralState
	}
}

func lookupPlaceholder(name string) *placeholder {
	text := "@" + name + "@"
	switch name {
	case "INPUT":
		return &placeholder{kind: phInput, text: text}
	case "OUTPUT":
		return &placeholder{kind: phOutput, text: text}
	case "DEPFILE":
		return &placeholder{kind: phDepfile, text: text}
	case "BASENAME":
		return &placeholder{kind: phBasename, text: text}
	case "OUTDIR":
		return &placeholder{kind: phOutdir, text: text}
	}

	for prefix, kind := range map[string]placeholderKind{"INPUT": phInputN, "OUTPUT": phOutputN} {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		n, err := strconv.Atoi(name[len(prefix):])
		if err != nil || n < 0 {
			return nil
		}
		return &placeholder{kind: kind, index: n, text: text}
	}
	return nil
}
