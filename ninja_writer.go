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
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const (
	indentWidth = 4
	lineWidth   = 80
)

var indentString = strings.Repeat(" ", indentWidth*2)

var (
	defaultEscaper = strings.NewReplacer(
		"$", "$$",
		"\n", "$\n")
	inputEscaper = strings.NewReplacer(
		"$", "$$",
		"\n", "$\n",
		" ", "$ ")
	outputEscaper = strings.NewReplacer(
		"$", "$$",
		"\n", "$\n",
		" ", "$ ",
		":", "$:")
)

// A ninjaVar is one name = value binding.  The value is written as is and
// must already be escaped.
type ninjaVar struct {
	name, value string
}

// A buildStmt is one build statement with its scoped bindings.  Paths are
// raw and escaped when written.
type buildStmt struct {
	comment   string
	rule      string
	outputs   []string
	inputs    []string
	implicits []string
	orderOnly []string
	vars      []ninjaVar
}

// A ninjaWriter writes the statements of a Ninja manifest.
type ninjaWriter struct {
	writer io.StringWriter

	justDidBlankLine bool // true if the last operation was a BlankLine
	err              error
}

func newNinjaWriter(writer io.StringWriter) *ninjaWriter {
	return &ninjaWriter{
		writer: writer,
	}
}

func (n *ninjaWriter) write(strs ...string) {
	for _, s := range strs {
		if n.err != nil {
			return
		}
		_, n.err = n.writer.WriteString(s)
	}
}

func (n *ninjaWriter) Comment(comment string) error {
	n.justDidBlankLine = false

	const maxLineLen = uint(lineWidth - len("# "))

	for _, line := range strings.Split(wordwrap.WrapString(comment, maxLineLen), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			n.write("#\n")
		} else {
			n.write("# ", line, "\n")
		}
	}
	return n.err
}

// Rule writes a rule declaration followed by its bindings.
func (n *ninjaWriter) Rule(name string, vars ...ninjaVar) error {
	n.justDidBlankLine = false
	n.write("rule ", name, "\n")
	n.scoped(vars)
	return n.err
}

func (n *ninjaWriter) Build(b *buildStmt) error {
	if b.comment != "" {
		if err := n.Comment(b.comment); err != nil {
			return err
		}
	}
	n.justDidBlankLine = false

	wrapper := n.wrap()
	wrapper.WriteString("build")
	for _, output := range b.outputs {
		wrapper.WriteStringWithSpace(outputEscaper.Replace(output))
	}
	wrapper.WriteString(":")
	wrapper.WriteStringWithSpace(b.rule)
	wrapper.list("", b.inputs)
	wrapper.list("|", b.implicits)
	wrapper.list("||", b.orderOnly)
	if err := wrapper.Flush(); err != nil {
		return err
	}

	n.scoped(b.vars)
	return n.err
}

// Phony writes a build statement that gives deps the alias name.
func (n *ninjaWriter) Phony(name string, deps ...string) error {
	return n.Build(&buildStmt{rule: "phony", outputs: []string{name}, inputs: deps})
}

func (n *ninjaWriter) Assign(name, value string) error {
	n.justDidBlankLine = false
	n.write(name, " = ", value, "\n")
	return n.err
}

func (n *ninjaWriter) scoped(vars []ninjaVar) {
	for _, v := range vars {
		n.write(indentString[:indentWidth], v.name, " = ", v.value, "\n")
	}
}

func (n *ninjaWriter) Default(targets ...string) error {
	n.justDidBlankLine = false

	wrapper := n.wrap()
	wrapper.WriteString("default")
	wrapper.list("", targets)
	return wrapper.Flush()
}

func (n *ninjaWriter) BlankLine() error {
	// We don't output multiple blank lines in a row.
	if !n.justDidBlankLine {
		n.justDidBlankLine = true
		n.write("\n")
	}
	return n.err
}

func (n *ninjaWriter) wrap() *ninjaWriterWithWrap {
	return &ninjaWriterWithWrap{
		ninjaWriter: n,
		maxLineLen:  lineWidth - len(" $"),
	}
}

// ninjaWriterWithWrap continues long statements on the next line with a
// trailing " $".
type ninjaWriterWithWrap struct {
	*ninjaWriter
	maxLineLen int
	writtenLen int
}

func (n *ninjaWriterWithWrap) writeString(s string, space bool) {
	spaceLen := 0
	if space {
		spaceLen = 1
	}

	if n.writtenLen > 0 && n.writtenLen+len(s)+spaceLen > n.maxLineLen {
		n.write(" $\n", indentString)
		n.writtenLen = len(indentString)
	} else if space {
		n.write(" ")
		n.writtenLen++
	}

	n.write(s)
	n.writtenLen += len(s)
}

func (n *ninjaWriterWithWrap) WriteString(s string) {
	n.writeString(s, false)
}

func (n *ninjaWriterWithWrap) WriteStringWithSpace(s string) {
	n.writeString(s, true)
}

// list writes paths escaped as inputs, preceded by sep if there are any.
func (n *ninjaWriterWithWrap) list(sep string, paths []string) {
	if len(paths) > 0 && sep != "" {
		n.WriteStringWithSpace(sep)
	}
	for _, p := range paths {
		n.WriteStringWithSpace(inputEscaper.Replace(p))
	}
}

func (n *ninjaWriterWithWrap) Flush() error {
	n.write("\n")
	return n.err
}
